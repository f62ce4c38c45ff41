package s3

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrConcurrentModification is returned when a concurrent snapshot commit is
// detected.
var ErrConcurrentModification = errors.New("concurrent modification detected")

// DDBClient is the interface for the DynamoDB operations used by VersionStore.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// VersionStore tracks which snapshot generation is current, backed by
// DynamoDB. S3 alone has no compare-and-swap, so concurrent writers could
// silently overwrite each other's snapshot pointer; DynamoDB conditional
// writes provide the missing atomicity.
//
// Table schema:
//   - Partition key: base_uri (string) - the S3 bucket/prefix being versioned
//   - Sort key: version (number) - monotonically increasing generation
//
// Create the table with:
//
//	aws dynamodb create-table \
//	  --table-name filterq-snapshots \
//	  --attribute-definitions AttributeName=base_uri,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=base_uri,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type VersionStore struct {
	client    DDBClient
	tableName string
	baseURI   string
}

// NewVersionStore creates a DynamoDB-backed version store.
// baseURI should be the "s3://bucket/prefix" the snapshots live under; it is
// used as the partition key.
func NewVersionStore(client DDBClient, tableName, baseURI string) *VersionStore {
	return &VersionStore{
		client:    client,
		tableName: tableName,
		baseURI:   baseURI,
	}
}

// Latest returns the most recently committed version and its manifest, or
// (0, nil, nil) when nothing has been committed yet.
func (s *VersionStore) Latest(ctx context.Context) (uint64, []byte, error) {
	resp, err := s.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(s.tableName),
		KeyConditionExpression: aws.String("base_uri = :uri"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":uri": &ddbtypes.AttributeValueMemberS{Value: s.baseURI},
		},
		ScanIndexForward: aws.Bool(false), // Descending order
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return 0, nil, fmt.Errorf("failed to query DynamoDB: %w", err)
	}

	if len(resp.Items) == 0 {
		return 0, nil, nil
	}

	item := resp.Items[0]
	versionAttr, ok := item["version"].(*ddbtypes.AttributeValueMemberN)
	if !ok {
		return 0, nil, errors.New("invalid version attribute in DynamoDB")
	}
	manifestAttr, ok := item["manifest"].(*ddbtypes.AttributeValueMemberS)
	if !ok {
		return 0, nil, errors.New("invalid manifest attribute in DynamoDB")
	}

	version, err := strconv.ParseUint(versionAttr.Value, 10, 64)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to parse version: %w", err)
	}

	return version, []byte(manifestAttr.Value), nil
}

// Commit atomically records a new snapshot generation. The conditional put
// only succeeds if the version does not exist yet, so two writers racing on
// the same version number cannot both win.
func (s *VersionStore) Commit(ctx context.Context, version uint64, manifest []byte) error {
	_, err := s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item: map[string]ddbtypes.AttributeValue{
			"base_uri": &ddbtypes.AttributeValueMemberS{Value: s.baseURI},
			"version":  &ddbtypes.AttributeValueMemberN{Value: strconv.FormatUint(version, 10)},
			"manifest": &ddbtypes.AttributeValueMemberS{Value: string(manifest)},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *ddbtypes.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return ErrConcurrentModification
		}
		return fmt.Errorf("failed to commit version to DynamoDB: %w", err)
	}
	return nil
}
