package domain

// PostsPerPage est la taille fixe des pages de listing.
const PostsPerPage = 10

// PostPage est une tranche ordonnée de posts plus ses métadonnées de pagination.
type PostPage struct {
	Number     int // page courante (après clamp)
	TotalPages int // toujours >= 1, même pour un résultat vide
	PageSize   int
	TotalCount int
	Posts      []*Post
}

// GroupFeed expose le groupe à côté de sa page de posts.
type GroupFeed struct {
	Group *Group
	Page  *PostPage
}

// ProfileFeed expose l'auteur, la page de ses posts, et l'état de suivi du
// visiteur (false pour un visiteur anonyme).
type ProfileFeed struct {
	Author    *User
	Following bool
	Page      *PostPage
}
