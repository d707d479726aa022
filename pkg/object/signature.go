package object

// CommitSigningPayload returns the canonical bytes that are signed for a
// commit: its stored form, whose SHA-1 is the commit hash.
func CommitSigningPayload(c *CommitObj) []byte {
	if c == nil {
		return nil
	}
	return []byte(string(TypeCommit) + "\n" + MarshalCommit(c))
}
