// Package buildinfo reports the version stamped at link time:
//
//	go build -ldflags "-X github.com/dmitrijs2005/gemini-go/internal/buildinfo.buildVersion=v0.3.0"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	buildVersion = "N/A"
	buildDate    = "N/A"
	buildCommit  = "N/A"
)

func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", buildVersion)
	fmt.Fprintf(w, "Build date: %s\n", buildDate)
	fmt.Fprintf(w, "Build commit: %s\n", buildCommit)
}

// UserAgent is sent in the x-goog-api-client header.
func UserAgent() string {
	return "gemini-go/" + buildVersion
}
