// Package reconcile applies rendered artifacts to the filesystem.
//
// Each artifact is evaluated under an update strategy against the current
// state of its destination:
//
//	Strategy               absent   present
//	create                 write    conflict
//	force-create           write    overwrite
//	update                 write    overwrite unless hand-modified
//	force-update           write    overwrite
//	update-if-non-existent write    keep
//
// Hand modification is detected through the generation ledger: every write
// records the fingerprint of the written content, and a destination whose
// fingerprint differs from its record was edited since. Without a record the
// destination's modification time is compared with its definition's.
//
// In diff mode no file and no ledger record is touched; a unified diff of
// the existing against the proposed content is printed instead.
//
// Artifacts are processed sequentially in plan order. A failure on one
// artifact is reported in its Result and processing continues.
package reconcile
