package domain

// AuthorityPolicy is the source-precedence table used during merge. It is a
// configuration input: the engine never discovers rankings on its own.
type AuthorityPolicy struct {
	// PrimaryLegal lists sources whose URLs win merge tie-breaks.
	PrimaryLegal map[Source]bool

	// CanonicalRegistry is the source whose sourceId and documentType are
	// preferred when present.
	CanonicalRegistry Source
}

// DefaultAuthorityPolicy returns the built-in precedence table.
func DefaultAuthorityPolicy() AuthorityPolicy {
	return AuthorityPolicy{
		PrimaryLegal: map[Source]bool{
			SourceRechtspraak:          true,
			SourceOfficielePublicaties: true,
			SourceWettenbank:           true,
		},
		CanonicalRegistry: SourceRegistry,
	}
}

// IsPrimaryLegal reports whether the policy ranks the source as primary
// legal material.
func (p AuthorityPolicy) IsPrimaryLegal(s Source) bool {
	return p.PrimaryLegal[s]
}
