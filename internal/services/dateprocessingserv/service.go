package dateprocessingserv

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/zeebo/errs"

	"github.com/Philanthropists/income-alerts/internal/logging"
)

const (
	OverrideLastProcessedDateEnvName = "OVERRIDE_LAST_PROC_DATE"

	table  = "income-alerts-data"
	field  = "LastProcessedDate"
	itemId = 1

	dateFormat = time.RFC822Z

	fallbackWindow = 30 * 24 * time.Hour
)

type dynamoClient interface {
	GetItem(
		context.Context,
		*dynamodb.GetItemInput,
		...func(*dynamodb.Options),
	) (*dynamodb.GetItemOutput, error)

	UpdateItem(
		context.Context,
		*dynamodb.UpdateItemInput,
		...func(*dynamodb.Options),
	) (*dynamodb.UpdateItemOutput, error)
}

// DynamoDBService remembers up to when the inbox has been imported.
type DynamoDBService struct {
	Client dynamoClient
	Now    func() time.Time
}

func (r DynamoDBService) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// GetLastProcessedDate resolves, in order, the OVERRIDE_LAST_PROC_DATE
// variable, the stored date minus one day, and thirty days ago.
func (r DynamoDBService) GetLastProcessedDate(
	ctx context.Context,
) (time.Time, error) {
	fallback := r.now().Add(-fallbackWindow)

	log := logging.FromContext(ctx).With(logging.Time("fallbackDate", fallback))

	if overrideDate, ok := r.getLastProcessedDateOverride(log); ok {
		return overrideDate, nil
	}

	if r.Client == nil {
		return time.Time{}, errs.New("dynamoDB client is nil")
	}

	since, err := r.getDateFromStorage(ctx)
	if err != nil {
		log.Error("could not get date from dynamodb", logging.Error(err))
		return fallback, nil
	}

	const oneDayBefore time.Duration = -24 * time.Hour
	since = since.Add(oneDayBefore)

	return since, nil
}

func (r DynamoDBService) getLastProcessedDateOverride(log *logging.Logger) (time.Time, bool) {
	if dateStr := os.Getenv(OverrideLastProcessedDateEnvName); dateStr != "" {
		const dateFormat = "2006-01-02"

		selectedDate, err := time.Parse(dateFormat, dateStr)
		if err == nil {
			log.Info("date is overridden",
				logging.Time("date_override", selectedDate),
			)
			return selectedDate, true
		}

		log.Error("override is set, but it is invalid", logging.String("value", dateStr))
	}

	return time.Time{}, false
}

func (r DynamoDBService) SaveProcessedDate(
	ctx context.Context,
	t time.Time,
) error {
	key, err := attributevalue.MarshalMap(map[string]any{
		"Id": itemId,
	})
	if err != nil {
		return errs.Wrap(err)
	}

	expAttrValues, err := attributevalue.MarshalMap(map[string]any{
		":r": ProcessedDate(t),
	})
	if err != nil {
		return errs.Wrap(err)
	}

	exp := fmt.Sprintf("set %s = :r", field)
	ps := &dynamodb.UpdateItemInput{
		Key:                       key,
		ExpressionAttributeValues: expAttrValues,
		TableName:                 aws.String(table),
		ReturnValues:              types.ReturnValueUpdatedNew,
		UpdateExpression:          aws.String(exp),
	}

	_, err = r.Client.UpdateItem(ctx, ps)
	if err != nil {
		return errs.New("could not update processing date: %w", err)
	}

	return nil
}

type ProcessedDate time.Time

func (d ProcessedDate) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	s := time.Time(d).Format(dateFormat)
	return &types.AttributeValueMemberS{
		Value: s,
	}, nil
}

func (d *ProcessedDate) UnmarshalDynamoDBAttributeValue(v types.AttributeValue) error {
	str, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return errs.New("field is not a string type: %v", v)
	}

	s := str.Value
	selectedDate, err := time.Parse(dateFormat, s)
	if err != nil {
		return errs.New(
			"%q is not a string representing a date: %w",
			s, err,
		)
	}

	*d = ProcessedDate(selectedDate)

	return nil
}

type DateObj struct {
	ProcessedDate *ProcessedDate `dynamodbav:"LastProcessedDate"`
}

func (r DynamoDBService) getDateFromStorage(
	ctx context.Context,
) (time.Time, error) {
	key, err := attributevalue.MarshalMap(map[string]any{
		"Id": itemId,
	})
	if err != nil {
		return time.Time{}, err
	}

	res, err := r.Client.GetItem(ctx, &dynamodb.GetItemInput{
		Key:       key,
		TableName: aws.String(table),
	})
	if err != nil {
		return time.Time{}, errs.New(
			"could not get item with id [%d] from dynamodb table [%s]: %w",
			itemId, table, err,
		)
	}

	var val DateObj
	err = attributevalue.UnmarshalMap(res.Item, &val)
	if err != nil {
		return time.Time{}, errs.Wrap(err)
	}

	if val.ProcessedDate == nil {
		return time.Time{}, errs.New("no %s stored", field)
	}

	return time.Time(*val.ProcessedDate), nil
}
