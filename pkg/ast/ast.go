package ast

import "pscode/interpreter-go/pkg/diag"

type NodeType string

const (
	NodeBlock              NodeType = "Block"
	NodeNumberLiteral      NodeType = "NumberLiteral"
	NodeStringLiteral      NodeType = "StringLiteral"
	NodeBooleanLiteral     NodeType = "BooleanLiteral"
	NodeNullLiteral        NodeType = "NullLiteral"
	NodeListLiteral        NodeType = "ListLiteral"
	NodeIdentifier         NodeType = "Identifier"
	NodeAssignment         NodeType = "Assignment"
	NodeIndexAssignment    NodeType = "IndexAssignment"
	NodeUnaryExpression    NodeType = "UnaryExpression"
	NodeBinaryExpression   NodeType = "BinaryExpression"
	NodeIfClause           NodeType = "IfClause"
	NodeIfExpression       NodeType = "IfExpression"
	NodeForLoop            NodeType = "ForLoop"
	NodeWhileLoop          NodeType = "WhileLoop"
	NodeRepeatLoop         NodeType = "RepeatLoop"
	NodeCaseArm            NodeType = "CaseArm"
	NodeCaseExpression     NodeType = "CaseExpression"
	NodeFunctionDefinition NodeType = "FunctionDefinition"
	NodeFunctionCall       NodeType = "FunctionCall"
	NodeIndexExpression    NodeType = "IndexExpression"
	NodeReturnStatement    NodeType = "ReturnStatement"
	NodeBreakStatement     NodeType = "BreakStatement"
	NodeContinueStatement  NodeType = "ContinueStatement"
	NodePrintStatement     NodeType = "PrintStatement"
	NodeInputStatement     NodeType = "InputStatement"
)

// Node is implemented by every AST node. Spans are used for diagnostics only.
type Node interface {
	NodeType() NodeType
	Span() diag.Span
	isNode()
}

type nodeImpl struct {
	Type NodeType  `json:"type"`
	Loc  diag.Span `json:"-"`
}

func newNodeImpl(kind NodeType) nodeImpl {
	return nodeImpl{Type: kind}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) Span() diag.Span    { return n.Loc }
func (nodeImpl) isNode()              {}

func (n *nodeImpl) setSpan(span diag.Span) { n.Loc = span }

// SetSpan annotates node with span.
func SetSpan(node Node, span diag.Span) {
	if node == nil {
		return
	}
	if setter, ok := node.(interface{ setSpan(diag.Span) }); ok {
		setter.setSpan(span)
	}
}

// WithSpan annotates node and returns it, for use inside constructor chains.
func WithSpan[T Node](node T, span diag.Span) T {
	SetSpan(node, span)
	return node
}

// Marker interfaces.

type Statement interface {
	Node
	statementNode()
}

type statementMarker struct{}

func (statementMarker) statementNode() {}

// Expression nodes may appear anywhere a statement may.
type Expression interface {
	Statement
	expressionNode()
}

type expressionMarker struct{}

func (expressionMarker) expressionNode() {}

// Block is a statement sequence: the program root and every block body.
type Block struct {
	nodeImpl
	statementMarker

	Body []Statement `json:"body"`
}

func NewBlock(body []Statement) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock), Body: body}
}

// Literals

type NumberLiteral struct {
	nodeImpl
	statementMarker
	expressionMarker

	Value float64 `json:"value"`
}

func NewNumberLiteral(value float64) *NumberLiteral {
	return &NumberLiteral{nodeImpl: newNodeImpl(NodeNumberLiteral), Value: value}
}

type StringLiteral struct {
	nodeImpl
	statementMarker
	expressionMarker

	Value string `json:"value"`
}

func NewStringLiteral(value string) *StringLiteral {
	return &StringLiteral{nodeImpl: newNodeImpl(NodeStringLiteral), Value: value}
}

type BooleanLiteral struct {
	nodeImpl
	statementMarker
	expressionMarker

	Value bool `json:"value"`
}

func NewBooleanLiteral(value bool) *BooleanLiteral {
	return &BooleanLiteral{nodeImpl: newNodeImpl(NodeBooleanLiteral), Value: value}
}

type NullLiteral struct {
	nodeImpl
	statementMarker
	expressionMarker
}

func NewNullLiteral() *NullLiteral {
	return &NullLiteral{nodeImpl: newNodeImpl(NodeNullLiteral)}
}

type ListLiteral struct {
	nodeImpl
	statementMarker
	expressionMarker

	Elements []Expression `json:"elements"`
}

func NewListLiteral(elements []Expression) *ListLiteral {
	return &ListLiteral{nodeImpl: newNodeImpl(NodeListLiteral), Elements: elements}
}

// Identifier is a variable reference.
type Identifier struct {
	nodeImpl
	statementMarker
	expressionMarker

	Name string `json:"name"`
}

func NewIdentifier(name string) *Identifier {
	return &Identifier{nodeImpl: newNodeImpl(NodeIdentifier), Name: name}
}

// Assignment binds Target in the innermost environment.
type Assignment struct {
	nodeImpl
	statementMarker

	Target *Identifier `json:"target"`
	Value  Expression  `json:"value"`
}

func NewAssignment(target *Identifier, value Expression) *Assignment {
	return &Assignment{nodeImpl: newNodeImpl(NodeAssignment), Target: target, Value: value}
}

// IndexAssignment stores into an element of an existing list.
type IndexAssignment struct {
	nodeImpl
	statementMarker

	Target *IndexExpression `json:"target"`
	Value  Expression       `json:"value"`
}

func NewIndexAssignment(target *IndexExpression, value Expression) *IndexAssignment {
	return &IndexAssignment{nodeImpl: newNodeImpl(NodeIndexAssignment), Target: target, Value: value}
}

// Operators

type Operator string

const (
	OpAdd          Operator = "+"
	OpSubtract     Operator = "-"
	OpMultiply     Operator = "*"
	OpDivide       Operator = "/"
	OpFloorDivide  Operator = "//"
	OpModulo       Operator = "MOD"
	OpPower        Operator = "**"
	OpEqual        Operator = "="
	OpNotEqual     Operator = "<>"
	OpLess         Operator = "<"
	OpGreater      Operator = ">"
	OpLessEqual    Operator = "<="
	OpGreaterEqual Operator = ">="
	OpAnd          Operator = "AND"
	OpOr           Operator = "OR"
	OpNot          Operator = "NOT"
)

type UnaryExpression struct {
	nodeImpl
	statementMarker
	expressionMarker

	Operator Operator   `json:"operator"`
	Operand  Expression `json:"operand"`
}

func NewUnaryExpression(operator Operator, operand Expression) *UnaryExpression {
	return &UnaryExpression{nodeImpl: newNodeImpl(NodeUnaryExpression), Operator: operator, Operand: operand}
}

type BinaryExpression struct {
	nodeImpl
	statementMarker
	expressionMarker

	Operator Operator   `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(operator Operator, left, right Expression) *BinaryExpression {
	return &BinaryExpression{nodeImpl: newNodeImpl(NodeBinaryExpression), Operator: operator, Left: left, Right: right}
}

// Control flow

type IfClause struct {
	nodeImpl

	Condition Expression `json:"condition"`
	Body      *Block     `json:"body"`
}

func NewIfClause(condition Expression, body *Block) *IfClause {
	return &IfClause{nodeImpl: newNodeImpl(NodeIfClause), Condition: condition, Body: body}
}

type IfExpression struct {
	nodeImpl
	statementMarker
	expressionMarker

	Clauses []*IfClause `json:"clauses"`
	Else    *Block      `json:"else,omitempty"`
}

func NewIfExpression(clauses []*IfClause, elseBody *Block) *IfExpression {
	return &IfExpression{nodeImpl: newNodeImpl(NodeIfExpression), Clauses: clauses, Else: elseBody}
}

// ForLoop is the counted loop; Step is nil when omitted.
type ForLoop struct {
	nodeImpl
	statementMarker
	expressionMarker

	Variable *Identifier `json:"variable"`
	Start    Expression  `json:"start"`
	End      Expression  `json:"end"`
	Step     Expression  `json:"step,omitempty"`
	Body     *Block      `json:"body"`
}

func NewForLoop(variable *Identifier, start, end, step Expression, body *Block) *ForLoop {
	return &ForLoop{nodeImpl: newNodeImpl(NodeForLoop), Variable: variable, Start: start, End: end, Step: step, Body: body}
}

type WhileLoop struct {
	nodeImpl
	statementMarker
	expressionMarker

	Condition Expression `json:"condition"`
	Body      *Block     `json:"body"`
}

func NewWhileLoop(condition Expression, body *Block) *WhileLoop {
	return &WhileLoop{nodeImpl: newNodeImpl(NodeWhileLoop), Condition: condition, Body: body}
}

// RepeatLoop runs Body before testing Until.
type RepeatLoop struct {
	nodeImpl
	statementMarker
	expressionMarker

	Body  *Block     `json:"body"`
	Until Expression `json:"until"`
}

func NewRepeatLoop(body *Block, until Expression) *RepeatLoop {
	return &RepeatLoop{nodeImpl: newNodeImpl(NodeRepeatLoop), Body: body, Until: until}
}

type CaseArm struct {
	nodeImpl

	Value    Expression `json:"value"`
	Response Statement  `json:"response"`
}

func NewCaseArm(value Expression, response Statement) *CaseArm {
	return &CaseArm{nodeImpl: newNodeImpl(NodeCaseArm), Value: value, Response: response}
}

type CaseExpression struct {
	nodeImpl
	statementMarker
	expressionMarker

	Subject *Identifier `json:"subject"`
	Arms    []*CaseArm  `json:"arms"`
	Default Statement   `json:"default,omitempty"`
}

func NewCaseExpression(subject *Identifier, arms []*CaseArm, otherwise Statement) *CaseExpression {
	return &CaseExpression{nodeImpl: newNodeImpl(NodeCaseExpression), Subject: subject, Arms: arms, Default: otherwise}
}

// Functions

// FunctionDefinition covers both forms. In expression form Body is an
// Expression whose value is returned; in block form Body is a *Block and
// values escape only through RETURN.
type FunctionDefinition struct {
	nodeImpl
	statementMarker
	expressionMarker

	ID             *Identifier   `json:"id,omitempty"`
	Params         []*Identifier `json:"params"`
	Body           Node          `json:"body"`
	ExpressionForm bool          `json:"expressionForm"`
}

func NewFunctionDefinition(id *Identifier, params []*Identifier, body Node, expressionForm bool) *FunctionDefinition {
	return &FunctionDefinition{nodeImpl: newNodeImpl(NodeFunctionDefinition), ID: id, Params: params, Body: body, ExpressionForm: expressionForm}
}

type FunctionCall struct {
	nodeImpl
	statementMarker
	expressionMarker

	Callee    Expression   `json:"callee"`
	Arguments []Expression `json:"arguments"`
}

func NewFunctionCall(callee Expression, args []Expression) *FunctionCall {
	return &FunctionCall{nodeImpl: newNodeImpl(NodeFunctionCall), Callee: callee, Arguments: args}
}

type IndexExpression struct {
	nodeImpl
	statementMarker
	expressionMarker

	Object Expression `json:"object"`
	Index  Expression `json:"index"`
}

func NewIndexExpression(object, index Expression) *IndexExpression {
	return &IndexExpression{nodeImpl: newNodeImpl(NodeIndexExpression), Object: object, Index: index}
}

// Statements

type ReturnStatement struct {
	nodeImpl
	statementMarker

	Argument Expression `json:"argument,omitempty"`
}

func NewReturnStatement(argument Expression) *ReturnStatement {
	return &ReturnStatement{nodeImpl: newNodeImpl(NodeReturnStatement), Argument: argument}
}

type BreakStatement struct {
	nodeImpl
	statementMarker
}

func NewBreakStatement() *BreakStatement {
	return &BreakStatement{nodeImpl: newNodeImpl(NodeBreakStatement)}
}

type ContinueStatement struct {
	nodeImpl
	statementMarker
}

func NewContinueStatement() *ContinueStatement {
	return &ContinueStatement{nodeImpl: newNodeImpl(NodeContinueStatement)}
}

type PrintStatement struct {
	nodeImpl
	statementMarker

	Arguments []Expression `json:"arguments"`
}

func NewPrintStatement(args []Expression) *PrintStatement {
	return &PrintStatement{nodeImpl: newNodeImpl(NodePrintStatement), Arguments: args}
}

type InputStatement struct {
	nodeImpl
	statementMarker

	Target *Identifier `json:"target"`
}

func NewInputStatement(target *Identifier) *InputStatement {
	return &InputStatement{nodeImpl: newNodeImpl(NodeInputStatement), Target: target}
}
