// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

// arithmetic
var (
	ErrArithmeticOverflow  = define(0x2000, KindArithmetic, "arithmetic overflow")
	ErrArithmeticUnderflow = define(0x2001, KindArithmetic, "arithmetic underflow")
	ErrDivisionByZero      = define(0x2002, KindArithmetic, "division by zero")
	ErrCastOverflow        = define(0x2003, KindArithmetic, "value does not fit the target integer")
)

// account shape
var (
	ErrNotEnoughAccountKeys      = define(0x2100, KindAccountShape, "not enough account keys")
	ErrInvalidAccountOwner       = define(0x2101, KindAccountShape, "invalid account owner")
	ErrInvalidDiscriminator      = define(0x2102, KindAccountShape, "invalid account discriminator")
	ErrInvalidAccountData        = define(0x2103, KindAccountShape, "invalid account data")
	ErrInvalidPDA                = define(0x2104, KindAccountShape, "account address does not match derived address")
	ErrAccountAlreadyInitialized = define(0x2105, KindAccountShape, "account already initialized")
	ErrAccountNotWritable        = define(0x2106, KindAccountShape, "account not writable")
	ErrIncorrectNcn              = define(0x2107, KindAccountShape, "account belongs to another ncn")
	ErrIncorrectEpoch            = define(0x2108, KindAccountShape, "account belongs to another epoch")
	ErrInvalidDestination        = define(0x2109, KindAccountShape, "destination does not match the expected account")
	ErrInvalidInstructionData    = define(0x210a, KindAccountShape, "invalid instruction data")
	ErrAccountNotFullSize        = define(0x210b, KindAccountShape, "account has not reached its full size")
	ErrInvalidSystemProgram      = define(0x210c, KindAccountShape, "invalid system program")
)

// authorization
var (
	ErrMissingSigner            = define(0x2200, KindAuthorization, "missing required signer")
	ErrIncorrectNcnAdmin        = define(0x2201, KindAuthorization, "signer is not the ncn admin")
	ErrIncorrectTieBreakerAdmin = define(0x2202, KindAuthorization, "signer is not the tie breaker admin")
	ErrIncorrectFeeAdmin        = define(0x2203, KindAuthorization, "signer is not the fee admin")
	ErrInvalidVoter             = define(0x2204, KindAuthorization, "signer is not the operator voter")
)

// state
var (
	ErrFeeCapExceeded            = define(0x2300, KindState, "total fees exceed 10000 bps")
	ErrInvalidNcnFeeGroup        = define(0x2301, KindState, "invalid ncn fee group")
	ErrInvalidEpochsBeforeStall  = define(0x2302, KindState, "epochs before stall out of range")
	ErrStMintRegistryFull        = define(0x2303, KindState, "st mint registry full")
	ErrMintAlreadyRegistered     = define(0x2304, KindState, "st mint already registered")
	ErrMintNotRegistered         = define(0x2305, KindState, "st mint not registered")
	ErrVaultRegistryFull         = define(0x2306, KindState, "vault registry full")
	ErrVaultNotActive            = define(0x2307, KindState, "vault is not active for the ncn")
	ErrVaultNotRegistered        = define(0x2308, KindState, "vault not registered")
	ErrWeightTableNotFinalized   = define(0x2309, KindState, "weight table not finalized")
	ErrWeightAlreadySet          = define(0x230a, KindState, "weight already set")
	ErrMintNotInTable            = define(0x230b, KindState, "st mint not in weight table")
	ErrInvalidWeight             = define(0x230c, KindState, "invalid weight")
	ErrOperatorNotInNcn          = define(0x230d, KindState, "operator does not belong to the ncn")
	ErrOperatorSnapshotFinalized = define(0x230e, KindState, "operator snapshot already finalized")
	ErrOperatorSnapshotNotFinal  = define(0x230f, KindState, "operator snapshot not finalized")
	ErrDuplicateDelegation       = define(0x2310, KindState, "vault operator delegation already registered")
	ErrEpochSnapshotNotComplete  = define(0x2311, KindState, "epoch snapshot not complete")
	ErrOperatorsRegisteredFull   = define(0x2312, KindState, "all operators already registered")
	ErrConsensusAlreadyReached   = define(0x2313, KindState, "consensus already reached")
	ErrConsensusNotReached       = define(0x2314, KindState, "consensus not reached")
	ErrOperatorAlreadyVoted      = define(0x2315, KindState, "operator already voted")
	ErrOperatorHasNotVoted       = define(0x2316, KindState, "operator has not voted")
	ErrOperatorVotesFull         = define(0x2317, KindState, "operator votes full")
	ErrBallotTallyFull           = define(0x2318, KindState, "ballot tallies full")
	ErrInvalidMerkleRoot         = define(0x2319, KindState, "invalid merkle root")
	ErrVotingStalled             = define(0x231a, KindState, "voting stalled, use the tie breaker")
	ErrVotingNotStalled          = define(0x231b, KindState, "voting not stalled yet")
	ErrTieBreakerNotInPriorVotes = define(0x231c, KindState, "tie breaker ballot was not voted on")
	ErrRouterLedgerFull          = define(0x231d, KindState, "reward router ledger full")
	ErrInsufficientRouterFunds   = define(0x231e, KindState, "router holds less than the recorded rewards")
	ErrEpochNotYetValid          = define(0x231f, KindState, "epoch is before the starting valid epoch")
	ErrRecipientNotFound         = define(0x2320, KindState, "no reward entry for recipient")
	ErrInvalidAdminRole          = define(0x2321, KindState, "invalid admin role")
	ErrAccountPayerUnderfunded   = define(0x2322, KindState, "account payer cannot cover rent")
)

// external data
var (
	ErrInvalidFeedAccount = define(0x2400, KindExternalData, "feed account is not the registered feed")
	ErrInvalidFeed        = define(0x2401, KindExternalData, "price feed could not be parsed")
	ErrStaleFeed          = define(0x2402, KindExternalData, "price feed is stale")
	ErrInvalidRestaking   = define(0x2403, KindExternalData, "restaking account could not be parsed")
)
