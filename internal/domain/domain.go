package domain

// KeyPrefix namespaces every key this service writes to the store.
// Overridden from config at startup (storage.key_prefix).
var KeyPrefix = "storesearch:"
