// Package features turns a grayscale ridge image into minutiae.
//
// The pipeline is:
//
//  1. Preprocess: threshold at the mean intensity and binarize (pixel > mean).
//  2. Morphology: skeletonize the ridge mask and build the validity mask
//     (convex hull of the mask, eroded). These primitives are supplied by a
//     Morphology implementation; this package does not thin images itself.
//  3. Detect: classify skeleton pixels by their 3x3 neighbourhood sum.
//  4. Assemble: label candidate clusters, take rounded centroids and estimate
//     an orientation from the ring of a small window around each centroid.
//
// Every stage is a pure function of its inputs. Nothing is cached between calls.
//
// # Validity masking
//
// The termination map is masked by the validity mask; the bifurcation map is
// not. Ridge endpoints produced by the print boundary are the dominant source of
// false terminations, while branch points near the boundary are kept as found.
package features
