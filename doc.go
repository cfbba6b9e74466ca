// Package auth provides the authentication and registration core for
// summitlog services: JWT issuance and validation, a fast-failing
// registration pipeline, uniqueness-guarded account creation, and a
// privacy-aware profile store backed by Bun.
//
// Registration:
//   - RegisterUserHandler runs the ordered validation rules, reserves the
//     email/username pair inside a single transaction, hashes the credential
//     with bcrypt, and persists the record with default privacy settings.
//     The first violated rule is what the caller sees; nothing touches
//     storage until every in-memory check has passed.
//
// Tokens:
//   - TokenService mints and validates HS256 session tokens carrying the
//     subject id, email, and username. The signing key is process-wide
//     configuration: rotate it and every outstanding token dies with it.
//
// HTTP:
//   - middleware/jwtware gates protected routes; AuthController exposes the
//     JSON endpoints. Both work against the interfaces in types.go so hosts
//     can swap storage or logging without touching the core.
package auth
