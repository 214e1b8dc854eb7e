package models

// EntryScope is the row filter applied to every entry statement.
type EntryScope struct {
	ownerID uint
	owned   bool
}

func UnscopedEntries() EntryScope {
	return EntryScope{}
}

func EntriesOwnedBy(userID uint) EntryScope {
	return EntryScope{ownerID: userID, owned: true}
}

func (scope EntryScope) Owned() bool {
	return scope.owned
}

// Owner returns the owning user id, or nil for an unscoped filter.
func (scope EntryScope) Owner() *uint {
	if !scope.owned {
		return nil
	}
	ownerID := scope.ownerID
	return &ownerID
}
