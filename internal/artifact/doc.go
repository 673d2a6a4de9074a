// Package artifact plans the files generated for a module or an interface.
//
// A plan is an ordered list of Artifacts: rendered content with a
// destination path and a category name. The order follows the IR (provided
// implementations in declaration order) and is the order in which the
// artifacts are synchronized.
package artifact
