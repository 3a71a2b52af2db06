// Package pipeline implements the iteration controller that turns a game
// concept into a published project.
//
// A run moves through designing, implementing, then an evaluate-fix loop:
// every round all evaluators judge the latest artifacts concurrently, the
// compiler folds their verdicts into an aggregate report, and the controller
// either publishes (all checks passed), repairs the implementation (budget
// remaining) or force-publishes with open issues (budget exhausted). The fix
// budget bounds the loop to MaxFixRounds+1 evaluation rounds.
//
// All generated content flows through the artifact store, which versions
// every write; the controller itself keeps no artifact state.
package pipeline
