// Command fkprint extracts finger and knuckle print templates, compares them
// and manages the reference store.
//
//	fkprint serve                          # HTTP API
//	fkprint enroll finger.bmp knuckle.bmp  # add a reference pair
//	fkprint identify finger.bmp knuckle.bmp [--no-enroll]
//	fkprint load fingers/ knuckles/        # bulk enrollment
//	fkprint extract print.png [--pgm skeleton.pgm]
//	fkprint compare a.png b.png
//
// Every command accepts --config pointing at a TOML file; see package config
// for the keys.
package main
