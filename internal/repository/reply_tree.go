package repository

import "github.com/zfogg/curlmap/backend/internal/models"

// BuildReplyTree turns flat replies, already in creation order, into a
// child-list tree. Replies whose parent is absent from the slice are promoted
// to the top level. Sibling order follows the input order.
func BuildReplyTree(replies []models.Reply) []*models.ReplyNode {
	nodes := make(map[uint]*models.ReplyNode, len(replies))
	for _, r := range replies {
		nodes[r.ID] = &models.ReplyNode{Reply: r, Children: []*models.ReplyNode{}}
	}

	roots := make([]*models.ReplyNode, 0, len(replies))
	for _, r := range replies {
		node := nodes[r.ID]
		if r.ParentReplyID != nil {
			if parent, ok := nodes[*r.ParentReplyID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}
	return roots
}
