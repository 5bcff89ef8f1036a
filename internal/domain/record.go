package domain

// Record is one loosely-typed hit from the news search backend: a field map
// as stored in the article index, plus "score" and "id" added by the
// repository when the backend supplied them. Any field may be missing.
type Record map[string]string
