/*
Package game describes target games as data: how to launch the interpreter,
the phrase tables that classify its output, the known room names, and the
command set with its legality predicates.

A game is defined by a Profile, loaded from a YAML document or built
programmatically with a Builder. Profiles are resolved before use: phrase
tables are merged with the generic interpreter defaults, predicate specs are
compiled against a Registry, and tuning knobs are filled with the defaults
that were found to work in practice.

The package is pure configuration and classification; it never talks to a
process. The Evaluator turns one raw output text into a domain.Frame using
ordered substring rules, and reports (rather than acts on) anything it could
not interpret.
*/
package game
