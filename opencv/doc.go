// Package opencv implements the morphology and keypoint capabilities on top
// of OpenCV through gocv.
//
// # Prerequisites
//
// OpenCV 4 with the contrib modules (ximgproc provides thinning) must be
// installed and cgo enabled. See https://gocv.io/getting-started/ for
// platform instructions.
//
// Mats are created and released inside each call; no OpenCV state outlives
// a method invocation, so values of these types are safe for concurrent use.
package opencv
