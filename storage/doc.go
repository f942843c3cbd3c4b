// Package storage holds rendered output files.
//
// Storage is the backend interface; storage/local implements it on the
// filesystem. Output layers the service's naming on top: files are saved
// as <uuid>.srt or <uuid>.txt and read back by plain name only.
//
//	output:
//	  provider: local
//	  dir: /tmp/srt_output
package storage
