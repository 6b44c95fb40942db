package models

// Chunk is a token-budget-bounded slice of concatenated file contents, the
// unit of work sent to the generation model. Text holds the path-headed
// file blocks in walk order; Tokens is the estimated token count.
type Chunk struct {
	Index  int
	Text   string
	Tokens int
}

// DocFragment is the model output for exactly one chunk. Index/Total mirror
// the chunk position so fragments can be joined in order with separators.
type DocFragment struct {
	Index int
	Total int
	Text  string
}
