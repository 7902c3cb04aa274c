package openbook

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/go-errors/errors"
)

type NodeTag uint8

const (
	NodeTagUninitialized NodeTag = 0
	NodeTagInnerNode     NodeTag = 1
	NodeTagLeafNode      NodeTag = 2
	NodeTagFreeNode      NodeTag = 3
	NodeTagLastFreeNode  NodeTag = 4
)

// AnyNode is one slot of the order tree. Only the tag byte is
// interpreted up front; the payload layout depends on the tag and only
// leaf nodes carry resting orders.
type AnyNode struct {
	Tag  uint8
	Data [87]uint8
}

type LeafNode struct {
	Tag           uint8
	OwnerSlot     uint8
	TimeInForce   uint16
	Padding       [4]uint8
	Key           bin.Uint128
	Owner         solana.PublicKey
	Quantity      int64
	Timestamp     uint64
	PegLimit      int64
	ClientOrderId uint64
}

// PriceLots extracts the quote-lot price from the upper 64 bits of the
// order key.
func (p *LeafNode) PriceLots() uint64 {
	return p.Key.Hi
}

func (p *LeafNode) SequenceNumber() uint64 {
	return p.Key.Lo
}

func (p *AnyNode) AsLeaf() (*LeafNode, error) {
	if NodeTag(p.Tag) != NodeTagLeafNode {
		return nil, errors.Errorf("node tag %d is not a leaf", p.Tag)
	}
	buffer := make([]byte, 0, 88)
	buffer = append(buffer, p.Tag)
	buffer = append(buffer, p.Data[:]...)
	var leaf LeafNode
	if err := bin.NewBinDecoder(buffer).Decode(&leaf); err != nil {
		return nil, errors.Wrap(err, 0)
	}
	return &leaf, nil
}

type OrderTreeRoot struct {
	MaybeNode uint32
	LeafCount uint32
}

type OrderTreeNodes struct {
	OrderTreeType uint8
	Padding       [3]uint8
	BumpIndex     uint32
	FreeListLen   uint32
	FreeListHead  uint32
	Reserved      [512]uint8
	Nodes         [BOOK_NODE_COUNT]AnyNode
}

// BookSide is the on-chain bids or asks container of one market.
type BookSide struct {
	Roots         [2]OrderTreeRoot
	ReservedRoots [4]OrderTreeRoot
	Reserved      [256]uint8
	Nodes         OrderTreeNodes
}

// DecodeBookSide decodes raw account bytes, including the anchor
// discriminator prefix.
func DecodeBookSide(buffer []byte) (*BookSide, error) {
	if len(buffer) <= 8 {
		return nil, errors.Errorf("book side buffer too short: %d bytes", len(buffer))
	}
	var bookSide BookSide
	if err := bin.NewBinDecoder(buffer[8:]).Decode(&bookSide); err != nil {
		return nil, errors.Wrap(err, 0)
	}
	return &bookSide, nil
}

// Leaves walks the used portion of the node array and returns the leaf
// nodes. Inner and free nodes are tree bookkeeping and are discarded
// here, never by incidental filtering downstream.
func (p *BookSide) Leaves() []LeafNode {
	count := int(p.Nodes.BumpIndex)
	if count > len(p.Nodes.Nodes) {
		count = len(p.Nodes.Nodes)
	}
	var leaves []LeafNode
	for i := 0; i < count; i++ {
		node := &p.Nodes.Nodes[i]
		switch NodeTag(node.Tag) {
		case NodeTagLeafNode:
			leaf, err := node.AsLeaf()
			if err != nil {
				continue
			}
			leaves = append(leaves, *leaf)
		case NodeTagInnerNode, NodeTagFreeNode, NodeTagLastFreeNode, NodeTagUninitialized:
		}
	}
	return leaves
}
