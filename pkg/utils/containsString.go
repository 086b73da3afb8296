package utils

// ContainsString reports whether searchTerm is an element of slice. Used for
// matching incoming field names against the profile update whitelists.
func ContainsString(slice []string, searchTerm string) bool {
	for _, s := range slice {
		if searchTerm == s {
			return true
		}
	}
	return false
}
