// Package vault seals OTP shared secrets for storage.
//
// Ciphertexts are AES-256-GCM with a fresh random nonce per call and are bound
// to the owning account through additional authenticated data, so a sealed
// secret copied onto another account fails to open. Output is base64 text.
package vault
