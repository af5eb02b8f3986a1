package model

// User represents a registered moviegoer.  Users are keyed by their
// email address rather than a numeric identifier and are created by
// the registration flow.  The password column stores a bcrypt hash,
// never the plain text.
//
// Fields:
//  Email     – primary key, unique per user.
//  LastName  – family name.
//  FirstName – given name.
//  Phone     – contact phone number stored as digits.
//  Password  – bcrypt hash of the user's password.
type User struct {
	Email     string // users.email
	LastName  string // users.lname
	FirstName string // users.fname
	Phone     string // users.phone
	Password  string // users.pwd (bcrypt hash)
}
