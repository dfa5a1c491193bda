package entity

// PairIndexEntry is one row of the pairing index the upstream stage emits:
// which current capture file corresponds to which archived capture file.
type PairIndexEntry struct {
	Key             PageKey
	CurrentURL      string
	ArchiveURL      string
	CurrentFileName string
	ArchiveFileName string
	CaptureDate     string
}
