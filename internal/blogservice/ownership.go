package blogservice

// canMutate reports whether the authenticated user may mutate a blog owned
// by ownerID. The two ids compare as same-typed values; the zero id (an
// unauthenticated caller) never owns anything.
func canMutate(userID, ownerID int64) bool {
	return userID != 0 && userID == ownerID
}
