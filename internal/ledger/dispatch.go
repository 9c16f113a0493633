package ledger

import (
	"fmt"
	"math"
	"strconv"

	"github.com/mesh-intelligence/deeds/pkg/types"
)

// Call dispatches a stable operation name on behalf of caller.
//
//	mint-property        name, location, totalShares, pricePerShare -> types.PropertyID
//	get-property-details propertyId                                -> types.Property
//	transfer-shares      propertyId, recipient, amount             -> nil
//	get-owner-shares     propertyId, holder                        -> uint64
//
// Numeric arguments accept any Go integer type, integral float64 (decoded
// JSON) and decimal strings.
func (l *Ledger) Call(caller, op string, args ...any) (any, error) {
	switch op {
	case types.OpMintProperty:
		if err := arity(op, args, 4); err != nil {
			return nil, err
		}
		name, err := toString(args[0], "name")
		if err != nil {
			return nil, err
		}
		location, err := toString(args[1], "location")
		if err != nil {
			return nil, err
		}
		total, err := toUint(args[2], "totalShares")
		if err != nil {
			return nil, err
		}
		price, err := toUint(args[3], "pricePerShare")
		if err != nil {
			return nil, err
		}
		id, err := l.Mint(caller, types.MintRequest{
			Name:          name,
			Location:      location,
			TotalShares:   total,
			PricePerShare: price,
		})
		if err != nil {
			return nil, err
		}
		return id, nil

	case types.OpGetPropertyDetails:
		if err := arity(op, args, 1); err != nil {
			return nil, err
		}
		id, err := toPropertyID(args[0])
		if err != nil {
			return nil, err
		}
		p, err := l.GetProperty(id)
		if err != nil {
			return nil, err
		}
		return p, nil

	case types.OpTransferShares:
		if err := arity(op, args, 3); err != nil {
			return nil, err
		}
		id, err := toPropertyID(args[0])
		if err != nil {
			return nil, err
		}
		recipient, recipientErr := toString(args[1], "recipient")
		amount, amountErr := toUint(args[2], "amount")
		if recipientErr != nil || amountErr != nil {
			// A missing property outranks malformed arguments.
			if _, err := l.GetProperty(id); err != nil {
				return nil, err
			}
			if recipientErr != nil {
				return nil, recipientErr
			}
			return nil, amountErr
		}
		return nil, l.Transfer(id, caller, recipient, amount)

	case types.OpGetOwnerShares:
		if err := arity(op, args, 2); err != nil {
			return nil, err
		}
		id, err := toPropertyID(args[0])
		if err != nil {
			return nil, err
		}
		holder, err := toString(args[1], "holder")
		if err != nil {
			return nil, err
		}
		shares, err := l.GetBalance(id, holder)
		if err != nil {
			return nil, err
		}
		return shares, nil

	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownOperation, op)
	}
}

func arity(op string, args []any, want int) error {
	if len(args) != want {
		return types.InvalidArgument("%s takes %d arguments, got %d", op, want, len(args))
	}
	return nil
}

func toString(v any, name string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", types.InvalidArgument("%s must be text, got %T", name, v)
	}
	return s, nil
}

func toPropertyID(v any) (types.PropertyID, error) {
	if id, ok := v.(types.PropertyID); ok {
		return id, nil
	}
	n, err := toUint(v, "propertyId")
	return types.PropertyID(n), err
}

// toUint converts a loosely typed non-negative integer.
func toUint(v any, name string) (uint64, error) {
	switch n := v.(type) {
	case uint:
		return uint64(n), nil
	case uint8:
		return uint64(n), nil
	case uint16:
		return uint64(n), nil
	case uint32:
		return uint64(n), nil
	case uint64:
		return n, nil
	case int:
		return signed(int64(n), name)
	case int8:
		return signed(int64(n), name)
	case int16:
		return signed(int64(n), name)
	case int32:
		return signed(int64(n), name)
	case int64:
		return signed(n, name)
	case float64:
		if n < 0 || n != math.Trunc(n) || n >= math.MaxUint64 {
			return 0, types.InvalidArgument("%s must be a non-negative integer, got %v", name, n)
		}
		return uint64(n), nil
	case string:
		u, err := strconv.ParseUint(n, 10, 64)
		if err != nil {
			return 0, types.InvalidArgument("%s must be a non-negative integer, got %q", name, n)
		}
		return u, nil
	default:
		return 0, types.InvalidArgument("%s must be an integer, got %T", name, v)
	}
}

func signed(n int64, name string) (uint64, error) {
	if n < 0 {
		return 0, types.InvalidArgument("%s must not be negative, got %d", name, n)
	}
	return uint64(n), nil
}
