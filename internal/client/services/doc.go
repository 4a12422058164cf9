// Package services wires the API client, the query cache and the mutation
// runner into the operations the views call: reading ingredients and
// recipes through cache keys, writing them with optimistic updates, the
// debounced ingredient search and image uploads.
package services
