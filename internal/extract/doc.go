// Package extract turns segmented drawing pages into schedule records.
//
// A page flows through the pipeline in four steps:
//
//  1. The page is rendered at Pipeline.Scale and segmented into dark regions.
//  2. Each region is mapped back to page space and its text is read from the
//     page's text layer.
//  3. Region text is accepted or rejected by the record filters (Accept), and
//     header rows are dropped (DropLabelLines).
//  4. If any region was accepted, the page's drawing number is looked up once
//     in the full page text and paired with every accepted region (Correlate).
//
// Records are kept in page order, then region order. A Collector gathers them
// across pages and documents for a sink to write.
package extract
