package clients

const (
	// COMMENTS_PAGE_SIZE is the upstream maximum for commentThreads.list.
	COMMENTS_PAGE_SIZE = 100
	USER_AGENT         = "fetchora/1.0 (+https://github.com/fetchora/fetchora)"
)
