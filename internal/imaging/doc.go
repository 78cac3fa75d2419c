// Package imaging provides the raster helpers used to inspect segmentation
// results: region overlays, region crops and a cache of rendered pages.
//
// # Coordinate System
//
// Regions are given in pixel space as produced by the segmenter: (0,0) is the
// top-left corner of the raster, X grows rightward and Y downward, and box edges
// fall on half-pixel positions. A region covers the pixels from
// floor(min+0.5) inclusive to floor(max+0.5) exclusive.
//
// Crop coordinates are integer pixels; (x1,y1) is inclusive and (x2,y2) is
// exclusive.
//
// # Thread Safety
//
// PageCache is safe for concurrent use. The drawing and encoding functions
// are stateless and never modify their input image.
package imaging
