// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pubmed

const listingHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta name="log_displayeduids" content="32023415,31978945,31992387">
  <title>crispr - Search Results - PubMed</title>
</head>
<body>
  <div class="results-amount"><span class="value">1,234</span> results</div>
  <div class="search-results-chunk">
    <article class="full-docsum">
      <div class="docsum-content">
        <a class="docsum-title" href="/32023415/" data-article-id="32023415">First <b>CRISPR</b> paper</a>
      </div>
    </article>
    <article class="full-docsum">
      <div class="docsum-content">
        <a class="docsum-title" href="/31978945/" data-article-id="31978945">Second paper</a>
      </div>
    </article>
    <article class="full-docsum">
      <div class="docsum-content">
        <a class="docsum-title" href="/31992387/" data-article-id="31992387">Third paper</a>
      </div>
    </article>
  </div>
  <div class="page-number-wrapper">
    <label class="of-total-pages">of <span class="total-pages">124</span></label>
  </div>
</body>
</html>`

const listingDocsumOnlyHTML = `<html><body>
  <div class="docsum-content"><a class="docsum-title" href="/111/">A</a></div>
  <div class="docsum-content"><a class="docsum-title" href="/222/?from_term=x">B</a></div>
  <div class="docsum-content"><a class="docsum-title" href="/111/">A again</a></div>
</body></html>`

const emptyListingHTML = `<html><head><title>No results</title></head><body>
  <div class="results-amount"><em class="no-results-amount">No results were found.</em></div>
</body></html>`

const articleHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta name="citation_title" content="[Genome   editing with CRISPR-Cas9 in human cells]">
  <meta name="citation_journal_title" content="Nature Biotechnology">
  <meta name="citation_date" content="2020 Feb">
  <meta name="description" content="Short description.">
</head>
<body>
  <main class="article-details">
    <h1 class="heading-title">Genome editing with CRISPR-Cas9 in human cells</h1>
    <div class="article-citation">
      <button id="full-view-journal-trigger" class="journal-actions-trigger" title="Nature biotechnology">Nat Biotechnol</button>
      <span class="cit">2020 Feb;38(2):100-110.</span>
    </div>
    <div class="authors">
      <div class="authors-list">
        <span class="authors-list-item"><a class="full-name" href="#">Ilia Zenkov</a><sup class="affiliation-link">1</sup>,</span>
        <span class="authors-list-item"><a class="full-name" href="#">Ada
            Lovelace</a><sup class="affiliation-link">2</sup></span>
      </div>
      <div class="authors-list">
        <span class="authors-list-item"><a class="full-name" href="#">Ilia Zenkov</a></span>
      </div>
    </div>
    <div class="affiliations">
      <h3 class="title">Affiliations</h3>
      <ul class="item-list">
        <li><sup class="key">1</sup> Department of Biology, University of Somewhere, City, Country.</li>
        <li><sup class="key">2</sup> Institute of Computing,   London, UK.</li>
      </ul>
    </div>
    <div id="abstract" class="abstract">
      <h2 class="title">Abstract</h2>
      <div class="abstract-content selected" id="eng-abstract">
        <p><strong class="sub-title">Background:</strong> Genome editing is
          useful.</p>
        <p><strong class="sub-title">Results:</strong> It works.</p>
      </div>
      <p><strong class="sub-title">Keywords:</strong> CRISPR; genome editing;  Cas9.</p>
    </div>
  </main>
</body>
</html>`

// articleMinimalHTML carries only fallback markup: no citation meta tags,
// no abstract-content block, no affiliations section.
const articleMinimalHTML = `<html><head>
  <meta property="og:title" content="Fallback title">
  <meta name="citation_authors" content="Smith J; Doe A;;Smith J">
  <meta name="citation_author_institution" content="Lab One">
  <meta name="citation_author_institution" content="Lab Two">
  <meta name="citation_publication_date" content="2019/05/01">
  <meta name="citation_keywords" content="alpha; beta">
</head><body>
  <button class="journal-actions-trigger" title="Journal full name">J Test</button>
</body></html>`
