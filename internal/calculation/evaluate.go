package calculation

import "errors"

// Operator is one of the four supported arithmetic operations.
type Operator string

const (
	OpAdd      Operator = "add"
	OpSubtract Operator = "subtract"
	OpMultiply Operator = "multiply"
	OpDivide   Operator = "divide"
)

var (
	ErrDivisionByZero       = errors.New("Division by zero is not allowed")
	ErrInvalidOperationType = errors.New("Invalid operation type")
)

// Valid reports whether op is one of the four recognized operators.
func (op Operator) Valid() bool {
	switch op {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return true
	}
	return false
}

// Evaluate applies op to (left, right). Division is ordinary floating-point
// division; a zero right operand fails rather than producing Inf.
func Evaluate(left float64, op Operator, right float64) (float64, error) {
	switch op {
	case OpAdd:
		return left + right, nil
	case OpSubtract:
		return left - right, nil
	case OpMultiply:
		return left * right, nil
	case OpDivide:
		if right == 0 {
			return 0, ErrDivisionByZero
		}
		return left / right, nil
	default:
		return 0, ErrInvalidOperationType
	}
}
