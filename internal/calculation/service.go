package calculation

import (
	"errors"
	"math"
	"time"

	"calctree/internal/models"
)

var (
	ErrInvalidNumber           = errors.New("Valid number is required")
	ErrInvalidRequest          = errors.New("Invalid request data")
	ErrStartingNumberNotFound  = errors.New("Starting number not found")
	ErrParentOperationNotFound = errors.New("Parent operation not found")
)

// ParentKind discriminates the two possible parents of an operation.
type ParentKind string

const (
	ParentStarting  ParentKind = "starting"
	ParentOperation ParentKind = "operation"
)

// ParentRef names the single parent of an operation: either a starting
// number or a prior operation. The store's two nullable columns are derived
// from it on write, so "both set" and "both absent" are unrepresentable here.
type ParentRef struct {
	Kind ParentKind
	ID   int64
}

// Store is the persistence contract the service needs. Absent rows are
// returned as (nil, nil) by the Find methods.
type Store interface {
	CreateStartingNumber(sn *models.StartingNumber) error
	FindStartingNumberByID(id int64) (*models.StartingNumber, error)
	CreateOperation(op *models.Operation) error
	FindOperationByID(id int64) (*models.Operation, error)
	ListStartingNumbers() ([]models.StartingNumber, error)
	ListChildOperations(parent ParentRef) ([]models.Operation, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateOperationRequest carries the client's description of a new
// operation. RightOperand is a pointer so a missing field can be told apart
// from a legitimate zero operand.
type CreateOperationRequest struct {
	ParentID      int64    `json:"parent_id"`
	ParentType    string   `json:"parent_type"`
	OperationType Operator `json:"operation_type"`
	RightOperand  *float64 `json:"right_operand"`
}

// CreateStartingNumber persists a new tree root for userID. Any finite
// value is accepted, including zero, negatives and fractions.
func (s *Service) CreateStartingNumber(userID int64, number float64) (*models.StartingNumber, error) {
	if math.IsNaN(number) || math.IsInf(number, 0) {
		return nil, ErrInvalidNumber
	}

	sn := &models.StartingNumber{
		UserID: userID,
		Number: number,
	}
	if err := s.store.CreateStartingNumber(sn); err != nil {
		return nil, err
	}
	return sn, nil
}

// CreateOperation resolves the parent's value, evaluates the operator
// against it and persists the result. The parent row is read once; since
// parents are immutable no transaction around the read and the write is
// needed.
func (s *Service) CreateOperation(userID int64, req CreateOperationRequest) (*models.Operation, error) {
	if req.ParentID == 0 || req.ParentType == "" || req.OperationType == "" || req.RightOperand == nil {
		return nil, ErrInvalidRequest
	}
	if !req.OperationType.Valid() {
		return nil, ErrInvalidOperationType
	}

	parent, err := parseParentRef(req.ParentType, req.ParentID)
	if err != nil {
		return nil, err
	}

	parentValue, err := s.resolveParentValue(parent)
	if err != nil {
		return nil, err
	}

	result, err := Evaluate(parentValue, req.OperationType, *req.RightOperand)
	if err != nil {
		return nil, err
	}

	op := &models.Operation{
		UserID:        userID,
		OperationType: string(req.OperationType),
		RightOperand:  *req.RightOperand,
		Result:        result,
	}
	switch parent.Kind {
	case ParentStarting:
		op.ParentID = &parent.ID
	case ParentOperation:
		op.ParentOperationID = &parent.ID
	}

	if err := s.store.CreateOperation(op); err != nil {
		return nil, err
	}
	return op, nil
}

func parseParentRef(parentType string, id int64) (ParentRef, error) {
	switch ParentKind(parentType) {
	case ParentStarting, ParentOperation:
		return ParentRef{Kind: ParentKind(parentType), ID: id}, nil
	default:
		return ParentRef{}, ErrInvalidRequest
	}
}

func (s *Service) resolveParentValue(parent ParentRef) (float64, error) {
	switch parent.Kind {
	case ParentStarting:
		sn, err := s.store.FindStartingNumberByID(parent.ID)
		if err != nil {
			return 0, err
		}
		if sn == nil {
			return 0, ErrStartingNumberNotFound
		}
		return sn.Number, nil
	default:
		op, err := s.store.FindOperationByID(parent.ID)
		if err != nil {
			return 0, err
		}
		if op == nil {
			return 0, ErrParentOperationNotFound
		}
		return op.Result, nil
	}
}

// OperationNode is the read-side projection of a starting number or an
// operation, with its children populated recursively. It is never persisted.
type OperationNode struct {
	ID            int64           `json:"id"`
	Type          ParentKind      `json:"type"`
	UserID        int64           `json:"user_id"`
	Value         float64         `json:"value"`
	OperationType Operator        `json:"operation_type,omitempty"`
	RightOperand  *float64        `json:"right_operand,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	Children      []OperationNode `json:"children"`
}

// Tree reconstructs every user's calculation forest. Roots are ordered
// newest starting number first; each node's children are ordered oldest
// first. Recursion depth is bounded by the longest operation chain, and
// the immutable insertion-ordered parent references rule out cycles.
func (s *Service) Tree() ([]OperationNode, error) {
	startings, err := s.store.ListStartingNumbers()
	if err != nil {
		return nil, err
	}

	trees := make([]OperationNode, 0, len(startings))
	for _, sn := range startings {
		node := OperationNode{
			ID:        sn.ID,
			Type:      ParentStarting,
			UserID:    sn.UserID,
			Value:     sn.Number,
			CreatedAt: sn.CreatedAt,
		}
		node.Children, err = s.buildChildren(ParentRef{Kind: ParentStarting, ID: sn.ID})
		if err != nil {
			return nil, err
		}
		trees = append(trees, node)
	}
	return trees, nil
}

func (s *Service) buildChildren(parent ParentRef) ([]OperationNode, error) {
	ops, err := s.store.ListChildOperations(parent)
	if err != nil {
		return nil, err
	}

	children := make([]OperationNode, 0, len(ops))
	for _, op := range ops {
		rightOperand := op.RightOperand
		child := OperationNode{
			ID:            op.ID,
			Type:          ParentOperation,
			UserID:        op.UserID,
			Value:         op.Result,
			OperationType: Operator(op.OperationType),
			RightOperand:  &rightOperand,
			CreatedAt:     op.CreatedAt,
		}
		child.Children, err = s.buildChildren(ParentRef{Kind: ParentOperation, ID: op.ID})
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}
