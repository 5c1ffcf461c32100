// Package source defines the backing-store side of the cache: where full
// snapshots come from and how record mutations are announced.
//
// A Source answers FetchAll with a lean projection of every record. A Listener
// receives create/update/delete notifications from whatever layer performs the
// write; animalcache.Cache implements Listener.
//
// Implementations:
//
//   - MemoryStore: in-process record store that notifies subscribed listeners
//   - BlobSource: a snapshot blob in any blobstore.BlobStore
//   - FileSource: a snapshot file read through a read-only memory map
//   - FuncSource: adapter for a plain function
//   - dynamodb.Source: a DynamoDB table scan
package source
