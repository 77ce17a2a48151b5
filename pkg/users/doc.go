// Package users manages accounts: registration, password and one-time
// authentication, profile updates, directory search and the resolve
// cache.
//
// Authentication failures collapse to [ErrInvalidCredentials]
// regardless of cause. One-time passwords are bcrypt-hashed like
// regular ones, expire after a configurable lifetime and are consumed
// on first successful use. [Service.CleanList] turns mixed lists of IDs
// and e-mail addresses into clean ID lists, creating accounts for
// unknown addresses, which is how mailing recipients are normalized.
package users
