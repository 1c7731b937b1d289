package tip_service

import (
	"strconv"

	"walrus-extend/chain"
)

// ArgumentKind kind of a programmable transaction argument
type ArgumentKind string

const (
	ArgObject ArgumentKind = "object"
	ArgPure   ArgumentKind = "pure"
	ArgResult ArgumentKind = "result"
)

// Argument input of a command: an object id, a pure value or the result of an earlier command
type Argument struct {
	Kind     ArgumentKind `json:"kind"`
	ObjectId string       `json:"objectId,omitempty"`
	Type     string       `json:"type,omitempty"` // pure value type: string, address, u64
	Value    string       `json:"value,omitempty"`
	Index    int          `json:"index"` // command index for result arguments
}

// Object argument referring to an owned object
func Object(id string) Argument {
	return Argument{Kind: ArgObject, ObjectId: id}
}

// PureString pure string argument
func PureString(v string) Argument {
	return Argument{Kind: ArgPure, Type: "string", Value: v}
}

// PureAddress pure address argument
func PureAddress(addr string) Argument {
	return Argument{Kind: ArgPure, Type: "address", Value: chain.NormalizeAddress(addr)}
}

// PureU64 pure u64 argument
func PureU64(v uint64) Argument {
	return Argument{Kind: ArgPure, Type: "u64", Value: strconv.FormatUint(v, 10)}
}

// Result first output of command index
func Result(index int) Argument {
	return Argument{Kind: ArgResult, Index: index}
}

// CommandKind programmable transaction command
type CommandKind string

const (
	CmdSplitCoins CommandKind = "SplitCoins"
	CmdMergeCoins CommandKind = "MergeCoins"
	CmdMoveCall   CommandKind = "MoveCall"
)

// Command one step of a TransactionPlan
type Command struct {
	Kind CommandKind `json:"kind"`

	// SplitCoins and MergeCoins
	Coin    *Argument  `json:"coin,omitempty"`
	Amounts []Argument `json:"amounts,omitempty"`
	Sources []Argument `json:"sources,omitempty"`

	// MoveCall
	Target        string     `json:"target,omitempty"`
	Arguments     []Argument `json:"arguments,omitempty"`
	TypeArguments []string   `json:"typeArguments,omitempty"`
}

// TransactionPlan unsigned programmable transaction handed to the wallet
type TransactionPlan struct {
	Sender    string    `json:"sender"`
	GasBudget uint64    `json:"gasBudget"`
	GasPrice  uint64    `json:"gasPrice"`
	Commands  []Command `json:"commands"`
}

// SplitCoins appends a split of amounts from coin and returns its result argument
func (p *TransactionPlan) SplitCoins(coin Argument, amounts ...uint64) Argument {
	args := make([]Argument, 0, len(amounts))
	for _, a := range amounts {
		args = append(args, PureU64(a))
	}
	p.Commands = append(p.Commands, Command{Kind: CmdSplitCoins, Coin: &coin, Amounts: args})
	return Result(len(p.Commands) - 1)
}

// MergeCoins appends a merge of sources into coin
func (p *TransactionPlan) MergeCoins(coin Argument, sources ...Argument) {
	p.Commands = append(p.Commands, Command{Kind: CmdMergeCoins, Coin: &coin, Sources: sources})
}

// MoveCall appends a move call
func (p *TransactionPlan) MoveCall(target string, args []Argument, typeArgs ...string) {
	p.Commands = append(p.Commands, Command{
		Kind:          CmdMoveCall,
		Target:        target,
		Arguments:     args,
		TypeArguments: typeArgs,
	})
}

// CountCommands number of commands of kind
func (p *TransactionPlan) CountCommands(kind CommandKind) int {
	n := 0
	for _, c := range p.Commands {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// selectTipCoin adds the coin commands that produce a coin worth exactly amount.
// A single coin is used whole on exact match and split otherwise; several coins
// are merged into the first before the split.
func selectTipCoin(plan *TransactionPlan, coins []chain.Coin, amount uint64) Argument {
	if len(coins) == 1 && coins[0].Balance >= amount {
		coin := Object(coins[0].CoinObjectId)
		if coins[0].Balance == amount {
			return coin
		}
		return plan.SplitCoins(coin, amount)
	}

	primary := Object(coins[0].CoinObjectId)
	if len(coins) > 1 {
		rest := make([]Argument, 0, len(coins)-1)
		for _, c := range coins[1:] {
			rest = append(rest, Object(c.CoinObjectId))
		}
		plan.MergeCoins(primary, rest...)
	}
	return plan.SplitCoins(primary, amount)
}
