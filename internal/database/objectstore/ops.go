package objectstore

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/polystoreio/polystore/pkg/gateway/adapter"
	"github.com/polystoreio/polystore/pkg/paradigm"
)

const defaultContentType = "application/octet-stream"

func (c *Connection) put(ctx context.Context, op adapter.Operation) (interface{}, error) {
	key, _ := op.StringParam("key")
	if key == "" {
		return nil, adapter.NewInvalidInputError(paradigm.Object, "key", "key must not be empty")
	}

	content, _ := op.BytesParam("content")
	contentType := op.StringOr("contentType", defaultContentType)

	info, err := c.client.Client().PutObject(ctx, c.client.Bucket(), key,
		bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return nil, adapter.WrapError(paradigm.Object, "put", err)
	}

	return map[string]interface{}{
		"key":  key,
		"etag": strings.Trim(info.ETag, "\""),
		"size": info.Size,
	}, nil
}

func (c *Connection) get(ctx context.Context, op adapter.Operation) (interface{}, error) {
	key, _ := op.StringParam("key")
	if key == "" {
		return nil, adapter.NewInvalidInputError(paradigm.Object, "key", "key must not be empty")
	}

	obj, err := c.client.Client().GetObject(ctx, c.client.Bucket(), key, minio.GetObjectOptions{})
	if err != nil {
		return nil, adapter.WrapError(paradigm.Object, "get", err)
	}
	defer obj.Close()

	// GetObject is lazy; Stat forces the request and surfaces NoSuchKey
	stat, err := obj.Stat()
	if err != nil {
		return nil, c.translateMissing(err, "get", "object", key)
	}

	content, err := io.ReadAll(obj)
	if err != nil {
		return nil, adapter.WrapError(paradigm.Object, "get", err)
	}

	return map[string]interface{}{
		"key":          key,
		"content":      string(content),
		"contentType":  stat.ContentType,
		"size":         stat.Size,
		"etag":         strings.Trim(stat.ETag, "\""),
		"lastModified": stat.LastModified,
	}, nil
}

func (c *Connection) list(ctx context.Context, op adapter.Operation) (interface{}, error) {
	prefix := op.StringOr("prefix", "")

	objectCh := c.client.Client().ListObjects(ctx, c.client.Bucket(), minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	objects := make([]map[string]interface{}, 0)
	for object := range objectCh {
		if object.Err != nil {
			return nil, adapter.WrapError(paradigm.Object, "list", object.Err)
		}
		objects = append(objects, map[string]interface{}{
			"key":          object.Key,
			"size":         object.Size,
			"etag":         strings.Trim(object.ETag, "\""),
			"lastModified": object.LastModified,
		})
	}

	return map[string]interface{}{
		"prefix":  prefix,
		"objects": objects,
		"count":   len(objects),
	}, nil
}

func (c *Connection) delete(ctx context.Context, op adapter.Operation) (interface{}, error) {
	key, _ := op.StringParam("key")
	if key == "" {
		return nil, adapter.NewInvalidInputError(paradigm.Object, "key", "key must not be empty")
	}

	// Removal is silent on absent keys, so existence is checked first to
	// surface not-found
	_, err := c.client.Client().StatObject(ctx, c.client.Bucket(), key, minio.StatObjectOptions{})
	if err != nil {
		return nil, c.translateMissing(err, "delete", "object", key)
	}

	err = c.client.Client().RemoveObject(ctx, c.client.Bucket(), key, minio.RemoveObjectOptions{})
	if err != nil {
		return nil, adapter.WrapError(paradigm.Object, "delete", err)
	}

	return map[string]interface{}{
		"key":     key,
		"deleted": true,
	}, nil
}

func (c *Connection) stat(ctx context.Context, op adapter.Operation) (interface{}, error) {
	key, _ := op.StringParam("key")
	if key == "" {
		return nil, adapter.NewInvalidInputError(paradigm.Object, "key", "key must not be empty")
	}

	stat, err := c.client.Client().StatObject(ctx, c.client.Bucket(), key, minio.StatObjectOptions{})
	if err != nil {
		return nil, c.translateMissing(err, "stat", "object", key)
	}

	return map[string]interface{}{
		"key":          key,
		"size":         stat.Size,
		"contentType":  stat.ContentType,
		"etag":         strings.Trim(stat.ETag, "\""),
		"lastModified": stat.LastModified,
	}, nil
}

// translateMissing converts the backend's missing-key signal into the
// adapter's not-found error and wraps everything else.
func (c *Connection) translateMissing(err error, op, resourceType, name string) error {
	resp := minio.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.Code == "NotFound" {
		return adapter.NewNotFoundError(paradigm.Object, resourceType, name)
	}
	return adapter.WrapError(paradigm.Object, op, err)
}
