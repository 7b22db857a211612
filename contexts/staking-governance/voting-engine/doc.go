// Package votingengine implements the token-weighted staking and voting
// state machine: projects with fixed voting windows, stake-weighted votes
// debited through the fungible-token ledger, one-time administrative
// finalization that records the largest staker as winner, and per-participant
// unstaking that pays the winner double.
package votingengine
