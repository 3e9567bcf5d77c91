package vars

// FirstNonZero picks the first value that is not the zero value of T.
// Settings pass the flag, then the config entry, then the default.
func FirstNonZero[T comparable](values ...T) (ret T) {
	for _, v := range values {
		if v != ret {
			return v
		}
	}
	return
}
