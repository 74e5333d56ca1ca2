// Package minio provides a blobstore.Store backed by MinIO or any other
// S3-compatible service reachable through minio-go.
//
// # Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
//	    Secure: false,
//	})
//	store := minioblob.NewStore(client, "datasets", "")
//
// The Open helper builds the client from an endpoint and the
// MINIO_ACCESS_KEY / MINIO_SECRET_KEY environment variables.
package minio
