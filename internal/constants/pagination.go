package constants

// Query Parameters accepted by listing endpoints
const (
	QueryParamOffset         = "offset"
	QueryParamLimit          = "limit"
	QueryParamOrder          = "order"
	QueryParamSearch         = "search"
	QueryParamSearchOperator = "search_operator"
	QueryParamChildOf        = "child_of"
	QueryParamDescendantOf   = "descendant_of"
	QueryParamForExplorer    = "for_explorer"
)

// Ordering values with reserved meaning
const (
	OrderRandom         = "random"
	OrderDescendingSign = "-"
)

// Tree parameter values with reserved meaning
const (
	TreeTargetRoot = "root"
)

// Search operator values
const (
	SearchOperatorAnd = "and"
	SearchOperatorOr  = "or"
)

// Default Pagination Values
const (
	DefaultOffset   = 0
	DefaultLimit    = 20
	DefaultMaxLimit = 20
)
