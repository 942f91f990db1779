// Package formats provides codecs for Terminal Reality 4x4 Evolution file formats:
// the SMF text model container and the RAW/ACT/OPA paletted texture triple.
package formats

// Note: SMF container and object records are in smf.go and smf_object.go
// Note: vertex splitting on export and welding on import are in smf_mesh.go
// Note: RAW/ACT/OPA decoding is in raw.go
