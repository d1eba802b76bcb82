// Package registry holds the static workflow table of the modifier assistant.
//
// The table is ordered: the command interpreter walks workflows in declaration order
// and keywords in list order, and the first keyword contained in the input wins.
// Keyword lists therefore put specific phrases before generic words, and Check
// verifies that no keyword is shadowed by a keyword of an earlier workflow.
//
// Each workflow has one or more variants. A variant pairs a structural requirement
// (count, kinds, mode, active entity) with the ordered procedure the executor runs.
package registry
