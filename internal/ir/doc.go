// Package ir provides the typed intermediate representation built from
// module manifests and interface definitions.
//
// This package contains type definitions only. The compiler produces IR,
// the renderer consumes it; ir imports nothing internal.
//
// Key design constraints:
//   - Every list (variables, commands, arguments, config, provides,
//     requires) is kept in source declaration order. Generated member
//     order is part of the diffable output and must never depend on map
//     iteration.
//   - TypeInfo.ElementType is set iff BaseKind is KindArray.
//   - ModuleIR.Configs is nil when no configuration exists at all, so
//     templates can omit the section instead of emitting an empty one.
//   - All JSON tags use snake_case.
package ir
