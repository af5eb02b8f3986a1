package model

// Show is a single scheduled screening of a movie at a specific date
// and time, independent of any theater.  The theaters screening a
// show are recorded in the plays relation.
//
// Fields:
//  ID        – primary key identifier.
//  MovieID   – the movie being screened.
//  Date      – screening date as YYYY-MM-DD.
//  StartTime – start time as HH:MM:SS.
//  EndTime   – end time as HH:MM:SS.
type Show struct {
	ID        uint64 // shows.sid
	MovieID   uint64 // shows.mvid
	Date      string // shows.sdate
	StartTime string // shows.sttime
	EndTime   string // shows.edtime
}

// Play associates a show with one theater screening it.  A booking for
// a (show, theater) pair is valid only when that pair exists here.
type Play struct {
	ShowID    uint64 // plays.sid
	TheaterID uint64 // plays.tid
}
