// Package registry keeps a local record of uploads made by the CLI so that
// remote file names can be listed, inspected and deleted later. Every status
// change is also appended to an event history.
package registry
