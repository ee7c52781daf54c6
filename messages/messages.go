// Package messages holds the user-visible strings the pipeline writes into
// the buffer or surfaces as notices. Components take a Set explicitly so
// there is no ambient locale lookup to stub out in tests.
package messages

// Set is one bundle of user-visible strings.
type Set struct {
	// FetchingTitle is the base phrase for placeholder tokens.
	FetchingTitle string

	// TitleUnavailable is inserted when every strategy came back empty.
	TitleUnavailable string

	// ErrorFetching is inserted when title resolution failed unexpectedly.
	ErrorFetching string

	// SiteUnreachable is inserted when the target did not answer the
	// reachability probe.
	SiteUnreachable string

	// DownloadLabel names a non-HTML resource whose URL has no usable
	// filename.
	DownloadLabel string

	// InvalidKeyWarning is shown once when a metadata API key is present
	// but has the wrong shape.
	InvalidKeyWarning string
}

// Default returns the English string set.
func Default() Set {
	return Set{
		FetchingTitle:     "Fetching Title",
		TitleUnavailable:  "Title Unavailable",
		ErrorFetching:     "Error fetching title",
		SiteUnreachable:   "Site Unreachable",
		DownloadLabel:     "Download",
		InvalidKeyWarning: "Metadata API key is not the expected length and will be ignored",
	}
}
