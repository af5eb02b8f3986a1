package model

// Movie describes a film that can be scheduled for one or more shows.
// Movies are immutable after creation in this system.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – display title.
//  ReleaseDate – release date as YYYY-MM-DD.
//  Country     – country of production.
//  Description – free-form synopsis.
//  Duration    – running time in seconds.
//  Language    – two letter language code.
//  Genre       – genre label.
type Movie struct {
	ID          uint64 // movies.mvid
	Title       string // movies.title
	ReleaseDate string // movies.rdate
	Country     string // movies.country
	Description string // movies.description
	Duration    uint32 // movies.duration (seconds)
	Language    string // movies.lang
	Genre       string // movies.genre
}
