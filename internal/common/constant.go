package common

// AuthorizationHeaderName carries the device token on sync requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes signed device tokens in the Authorization header.
const BearerPrefix = "Bearer "

// PoliceIdentifierKey is the request body key holding the officer credential
// on update and delete requests.
const PoliceIdentifierKey = "police_identifier"

// SyncStatusSynced marks records that reached the server through the sync protocol.
const SyncStatusSynced = "synced"
