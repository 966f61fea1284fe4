// Package relations turns stored works into locale-resolved cards and
// cross-links "projects" and "clips" that share a credited artist.
//
// Everything here is pure: callers fetch works, normalize them once per
// request with a Normalizer, then call Build.
package relations
