package model

// Cinema represents a venue containing one or more theaters.
//
// Fields:
//  ID   – primary key identifier.
//  Name – cinema chain or venue name.
//  City – city the cinema is located in.
type Cinema struct {
	ID   uint64 // cinemas.cid
	Name string // cinemas.cname
	City string // cinemas.city
}

// Theater is a single auditorium inside a cinema.
//
// Fields:
//  ID       – primary key identifier.
//  Name     – display name of the auditorium.
//  Capacity – number of physical seats.
//  CinemaID – owning cinema.
type Theater struct {
	ID       uint64 // theaters.tid
	Name     string // theaters.tname
	Capacity uint32 // theaters.tseats
	CinemaID uint64 // theaters.cid
}
