package domain

import "time"

// Relation représente un lien dirigé du graphe social (User -> FOLLOWS -> Author).
// Les deux extrémités sont nommées indépendamment : UserID suit, AuthorID est suivi.
type Relation struct {
	UserID    string // celui qui suit
	AuthorID  string // celui qui est suivi
	CreatedAt time.Time
}
