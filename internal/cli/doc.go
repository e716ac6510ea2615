// Package cli implements the gemini-files command:
//
//	gemini-files upload [--display-name N] [--mime-type T] [--verify] FILE...
//	gemini-files list [--all]
//	gemini-files get NAME
//	gemini-files delete NAME...
//	gemini-files version
//
// FILE may be a local path or s3://bucket/key. Uploads are recorded in a
// local SQLite registry which list reads.
package cli
