package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Jaypatel0924/Sweet-Shop-Management-System/models"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoAPI is the subset of the DynamoDB client used by DynamoSweetRepository.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoSweetRepository implements SweetRepository on a DynamoDB table keyed by "id".
// Listing and search scan the table and filter in process.
type DynamoSweetRepository struct {
	client DynamoAPI
	table  string
}

func NewDynamoSweetRepository(client DynamoAPI, table string) *DynamoSweetRepository {
	return &DynamoSweetRepository{client: client, table: table}
}

func (r *DynamoSweetRepository) key(id string) (map[string]types.AttributeValue, error) {
	key, err := attributevalue.MarshalMap(map[string]string{"id": id})
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}
	return key, nil
}

func (r *DynamoSweetRepository) Create(ctx context.Context, sweet *models.Sweet) error {
	now := time.Now().UTC()
	if sweet.CreatedAt.IsZero() {
		sweet.CreatedAt = now
	}
	sweet.UpdatedAt = now

	item, err := attributevalue.MarshalMap(sweet)
	if err != nil {
		return fmt.Errorf("marshal sweet: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           &r.table,
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(id)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrDuplicate
		}
		return fmt.Errorf("dynamodb PutItem failed: %w", err)
	}
	return nil
}

func (r *DynamoSweetRepository) FindByID(ctx context.Context, id string) (*models.Sweet, error) {
	key, err := r.key(id)
	if err != nil {
		return nil, err
	}

	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      &r.table,
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem failed: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, ErrNotFound
	}
	return unmarshalSweet(out.Item)
}

func (r *DynamoSweetRepository) Search(ctx context.Context, q models.SweetSearch) ([]*models.Sweet, error) {
	sweets := []*models.Sweet{}
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         &r.table,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return nil, fmt.Errorf("dynamodb Scan failed: %w", err)
		}
		for _, item := range out.Items {
			s, err := unmarshalSweet(item)
			if err != nil {
				return nil, err
			}
			if q.Matches(s) {
				sweets = append(sweets, s)
			}
		}
		if len(out.LastEvaluatedKey) == 0 {
			break
		}
		startKey = out.LastEvaluatedKey
	}

	sort.SliceStable(sweets, func(i, j int) bool {
		return sweets[i].CreatedAt.After(sweets[j].CreatedAt)
	})
	return sweets, nil
}

func (r *DynamoSweetRepository) Update(ctx context.Context, id string, req *models.UpdateSweetRequest) (*models.Sweet, error) {
	fields := map[string]interface{}{"updated_at": time.Now().UTC()}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.Quantity != nil {
		fields["quantity"] = *req.Quantity
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Image != nil {
		fields["image"] = *req.Image
	}

	expr := "SET "
	exprVals := make(map[string]types.AttributeValue)
	exprNames := make(map[string]string)
	i := 0
	for k, v := range fields {
		ph := fmt.Sprintf(":v%d", i)
		namePh := fmt.Sprintf("#f%d", i)
		if i > 0 {
			expr += ", "
		}
		expr += fmt.Sprintf("%s = %s", namePh, ph)
		exprNames[namePh] = k
		av, err := attributevalue.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("marshal update value: %w", err)
		}
		exprVals[ph] = av
		i++
	}

	return r.updateItem(ctx, id, expr, "attribute_exists(id)", exprNames, exprVals)
}

func (r *DynamoSweetRepository) Delete(ctx context.Context, id string) (*models.Sweet, error) {
	key, err := r.key(id)
	if err != nil {
		return nil, err
	}

	out, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    &r.table,
		Key:          key,
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb DeleteItem failed: %w", err)
	}
	if len(out.Attributes) == 0 {
		return nil, ErrNotFound
	}
	return unmarshalSweet(out.Attributes)
}

// DecrementStock subtracts quantity under the condition quantity >= :qty.
func (r *DynamoSweetRepository) DecrementStock(ctx context.Context, id string, quantity int) (*models.Sweet, error) {
	sweet, err := r.adjustStock(ctx, id, "SET #qty = #qty - :qty, #upd = :now", "attribute_exists(id) AND #qty >= :qty", quantity)
	if !errors.Is(err, ErrNotFound) {
		return sweet, err
	}

	// The condition failed: tell a missing item apart from short stock.
	if _, ferr := r.FindByID(ctx, id); ferr != nil {
		return nil, ferr
	}
	return nil, ErrInsufficientStock
}

func (r *DynamoSweetRepository) IncrementStock(ctx context.Context, id string, quantity int) (*models.Sweet, error) {
	return r.adjustStock(ctx, id, "SET #qty = #qty + :qty, #upd = :now", "attribute_exists(id)", quantity)
}

func (r *DynamoSweetRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	var startKey map[string]types.AttributeValue
	for {
		out, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:         &r.table,
			Select:            types.SelectCount,
			ExclusiveStartKey: startKey,
		})
		if err != nil {
			return 0, fmt.Errorf("dynamodb Scan failed: %w", err)
		}
		total += int64(out.Count)
		if len(out.LastEvaluatedKey) == 0 {
			return total, nil
		}
		startKey = out.LastEvaluatedKey
	}
}

func (r *DynamoSweetRepository) adjustStock(ctx context.Context, id, expr, cond string, quantity int) (*models.Sweet, error) {
	qtyAV, err := attributevalue.Marshal(quantity)
	if err != nil {
		return nil, fmt.Errorf("marshal quantity: %w", err)
	}
	nowAV, err := attributevalue.Marshal(time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("marshal timestamp: %w", err)
	}

	names := map[string]string{"#qty": "quantity", "#upd": "updated_at"}
	vals := map[string]types.AttributeValue{":qty": qtyAV, ":now": nowAV}
	return r.updateItem(ctx, id, expr, cond, names, vals)
}

// updateItem runs a conditional UpdateItem and returns the new image. A failed
// condition is reported as ErrNotFound; callers refine it when needed.
func (r *DynamoSweetRepository) updateItem(ctx context.Context, id, expr, cond string, names map[string]string, vals map[string]types.AttributeValue) (*models.Sweet, error) {
	key, err := r.key(id)
	if err != nil {
		return nil, err
	}

	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 &r.table,
		Key:                       key,
		UpdateExpression:          &expr,
		ConditionExpression:       &cond,
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: vals,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("dynamodb UpdateItem failed: %w", err)
	}
	return unmarshalSweet(out.Attributes)
}

func unmarshalSweet(item map[string]types.AttributeValue) (*models.Sweet, error) {
	var s models.Sweet
	if err := attributevalue.UnmarshalMap(item, &s); err != nil {
		return nil, fmt.Errorf("unmarshal sweet: %w", err)
	}
	return &s, nil
}
