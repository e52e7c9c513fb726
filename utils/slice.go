package utils

// UniqueStrings removes duplicate values from a slice of strings, keeping
// first-seen order. Used to dedupe category names before resolution.
func UniqueStrings(slice []string) []string {
	seen := make(map[string]bool)
	list := []string{}
	for _, entry := range slice {
		if !seen[entry] {
			seen[entry] = true
			list = append(list, entry)
		}
	}
	return list
}
