package appwrite

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/julianstephens/streakline/internal/remote"
)

func documentsPath(databaseID, collectionID string) string {
	return "/databases/" + url.PathEscape(databaseID) + "/collections/" + url.PathEscape(collectionID) + "/documents"
}

func documentPath(databaseID, collectionID, documentID string) string {
	return documentsPath(databaseID, collectionID) + "/" + url.PathEscape(documentID)
}

func (c *Client) CreateDocument(ctx context.Context, databaseID, collectionID, documentID string, data interface{}) (json.RawMessage, error) {
	body := map[string]interface{}{
		"documentId": documentID,
		"data":       data,
	}
	var doc json.RawMessage
	if err := c.do(ctx, "databases.createDocument", http.MethodPost, documentsPath(databaseID, collectionID), nil, body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *Client) GetDocument(ctx context.Context, databaseID, collectionID, documentID string) (json.RawMessage, error) {
	var doc json.RawMessage
	if err := c.do(ctx, "databases.getDocument", http.MethodGet, documentPath(databaseID, collectionID, documentID), nil, nil, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *Client) ListDocuments(ctx context.Context, databaseID, collectionID string, queries ...remote.Query) (*remote.DocumentList, error) {
	var params url.Values
	if len(queries) > 0 {
		params = url.Values{}
		for _, q := range queries {
			params.Add("queries[]", q.String())
		}
	}
	var list remote.DocumentList
	if err := c.do(ctx, "databases.listDocuments", http.MethodGet, documentsPath(databaseID, collectionID), params, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

func (c *Client) UpdateDocument(ctx context.Context, databaseID, collectionID, documentID string, data interface{}) (json.RawMessage, error) {
	var doc json.RawMessage
	body := map[string]interface{}{"data": data}
	if err := c.do(ctx, "databases.updateDocument", http.MethodPatch, documentPath(databaseID, collectionID, documentID), nil, body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (c *Client) DeleteDocument(ctx context.Context, databaseID, collectionID, documentID string) error {
	return c.do(ctx, "databases.deleteDocument", http.MethodDelete, documentPath(databaseID, collectionID, documentID), nil, nil, nil)
}
