// Package fingerknuckle extracts ridge minutiae from finger and knuckle prints
// and identifies a finger/knuckle pair against enrolled references.
//
// A typical flow:
//
//	config.LoadDefaultConfig()
//	img, err := fingerknuckle.LoadImage("probe.bmp")
//	tc := fingerknuckle.NewTemplateCreator(morphology, nil)
//	probe, err := tc.Template(img)
//	matcher, err := fingerknuckle.NewMatcher(keypoints, nil, probe)
//	score, err := matcher.Match(ctx, candidate)
//
// Morphology (thinning, convex hull, erosion) and keypoint detection are
// supplied by the caller; the opencv package provides both.
package fingerknuckle
