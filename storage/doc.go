// Package storage provides the upload adapter for generated artifacts.
// Supported providers: local filesystem, Amazon S3 (and S3-compatible
// services such as MinIO).
//
// Every provider satisfies render.ArtifactStore, so a rendering engine can
// write artifacts to whichever backend the run is configured with.
package storage
