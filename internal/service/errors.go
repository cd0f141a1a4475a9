package service

import (
	"errors"
	"fmt"
)

// Failure kinds returned by the stores. Messages are user facing and are
// shown verbatim by the clients.
var (
	ErrDuplicateEmail     = errors.New("User already exists with this email")
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrNotAuthenticated   = errors.New("User not authenticated")
	ErrStorageUnavailable = errors.New("Storage unavailable")
	ErrInvalidProfile     = errors.New("Height and weight must be positive")
	ErrInvalidSecret      = fmt.Errorf("Password must be at most %d bytes", MaxSecretBytes)
)

// MaxSecretBytes is the longest password bcrypt can hash.
const MaxSecretBytes = 72

// Success messages.
const (
	MsgRegistered   = "Registration successful"
	MsgLoggedIn     = "Login successful"
	MsgLoggedOut    = "Logout successful"
	MsgProfileSaved = "Profile saved successfully"
	MsgEntrySaved   = "Food entry saved successfully"
)
