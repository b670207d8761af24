// Package auth provides the authentication core for JSON APIs: signed
// bearer-token issuance and verification, password policy and adaptive
// hashing, and per-request identity resolution backed by a generic
// repository contract.
//
// Token lifecycle:
//   - TokenService signs compact HS256 tokens whose subject is always a
//     string (numeric ids are coerced before signing) and whose expiry is
//     an integer epoch-seconds claim. Verification is pure and safe to
//     call concurrently; there is no server-side revocation store, so a
//     token remains valid until it expires.
//
// Identity resolution:
//   - IdentityResolver walks the Authorization header through token
//     verification, subject extraction, principal lookup, and an
//     active-status gate. Required resolution surfaces a structured
//     authentication failure; optional resolution collapses every
//     failure into an anonymous result.
//
// Credentials:
//   - CredentialPolicy validates password strength before paying the
//     bcrypt cost, and bounds concurrent hashing with a weighted
//     semaphore so expensive hashes cannot starve request processing.
package auth
