package utils

import (
	"sort"
	"strings"

	"github.com/lsmithpanw/pcs-where-is/internal/models"
)

// SortUsers orders users in place. "login" sorts by last login, newest first;
// anything else sorts by display name.
func SortUsers(users []models.User, by string) {
	if by == "login" {
		SortUsersByLastLogin(users)
		return
	}
	SortUsersByName(users)
}

// SortUsersByLastLogin sorts users by last login time in descending order (newest first).
// Users who never logged in go to the end.
func SortUsersByLastLogin(users []models.User) {
	sort.SliceStable(users, func(i, j int) bool {
		return users[i].LastLoginTs > users[j].LastLoginTs
	})
}

// SortUsersByName sorts users by display name, case-insensitively
func SortUsersByName(users []models.User) {
	sort.SliceStable(users, func(i, j int) bool {
		return strings.ToLower(users[i].DisplayName) < strings.ToLower(users[j].DisplayName)
	})
}
