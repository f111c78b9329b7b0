package entity

// Store is the canonical in-memory board: one column per campaign plus the unassigned bucket
type Store struct {
	Columns []Column `json:"columns"`
}

// NewStore builds a store from columns, adding an empty unassigned bucket
// when missing and deriving every column status.
func NewStore(columns []Column) Store {
	s := Store{Columns: make([]Column, 0, len(columns)+1)}
	hasUnassigned := false
	for _, c := range columns {
		if c.IsUnassigned() {
			hasUnassigned = true
			c.Platform = ""
		}
		s.Columns = append(s.Columns, c.clone())
	}
	if !hasUnassigned {
		s.Columns = append([]Column{{ID: UnassignedColumnID, Name: "Unassigned"}}, s.Columns...)
	}
	s.Recompute()
	return s
}

// Clone returns a deep copy that shares no slices with the receiver
func (s Store) Clone() Store {
	if s.Columns == nil {
		return Store{}
	}
	out := Store{Columns: make([]Column, len(s.Columns))}
	for i := range s.Columns {
		out.Columns[i] = s.Columns[i].clone()
	}
	return out
}

// Recompute re-derives the status of every column
func (s *Store) Recompute() {
	for i := range s.Columns {
		s.Columns[i].Status = DeriveStatus(s.Columns[i])
	}
}

// AccountCount returns the total number of accounts across all columns
func (s *Store) AccountCount() int {
	n := 0
	for i := range s.Columns {
		n += len(s.Columns[i].Accounts)
	}
	return n
}

// ColumnIndex returns the position of the column with the given storage id, or -1
func (s *Store) ColumnIndex(id string) int {
	for i := range s.Columns {
		if s.Columns[i].ID == id {
			return i
		}
	}
	return -1
}

// Column returns the column with the given storage id
func (s *Store) Column(id string) (*Column, error) {
	i := s.ColumnIndex(id)
	if i < 0 {
		return nil, ErrColumnNotFound
	}
	return &s.Columns[i], nil
}

// FindAccount locates an account by id
func (s *Store) FindAccount(id string) (col, idx int, ok bool) {
	for c := range s.Columns {
		if i := s.Columns[c].IndexOf(id); i >= 0 {
			return c, i, true
		}
	}
	return -1, -1, false
}

// Account returns a copy of the account with the given id and the id of its column
func (s *Store) Account(id string) (Account, string, error) {
	c, i, ok := s.FindAccount(id)
	if !ok {
		return Account{}, "", ErrAccountNotFound
	}
	return s.Columns[c].Accounts[i], s.Columns[c].ID, nil
}
