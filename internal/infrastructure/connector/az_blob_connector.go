package connector

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/JsAppNinja/blesta-sub003/internal/domain/themes"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/config"
	"github.com/JsAppNinja/blesta-sub003/internal/pkg/logger"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// azureBlobConnector stores theme assets in one Azure Blob Storage container
type azureBlobConnector struct {
	client        *azblob.Client
	containerName string
	logger        logger.Logger
}

// NewAzureBlobConnector creates the connector and makes sure the container exists
func NewAzureBlobConnector(ctx context.Context, settings *config.BlobConnectorSettings, logger logger.Logger) (themes.AssetConnector, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid blob connector settings: %w", err)
	}

	client, err := azblob.NewClientFromConnectionString(settings.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure Blob client: %w", err)
	}

	_, err = client.CreateContainer(ctx, settings.ContainerName, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return nil, fmt.Errorf("failed to create container %s: %w", settings.ContainerName, err)
	}

	return &azureBlobConnector{
		client:        client,
		containerName: settings.ContainerName,
		logger:        logger,
	}, nil
}

// Upload stores content under name and returns the blob URL
func (c *azureBlobConnector) Upload(ctx context.Context, name string, content io.Reader) (string, error) {
	name = path.Clean("/" + name)[1:]

	if _, err := c.client.UploadStream(ctx, c.containerName, name, content, nil); err != nil {
		return "", fmt.Errorf("failed to upload blob %s: %w", name, err)
	}

	url := c.client.ServiceClient().NewContainerClient(c.containerName).NewBlobClient(name).URL()
	c.logger.Info("Uploaded blob ", name, " to container ", c.containerName)
	return url, nil
}

// Delete removes the blob, ignoring blobs that are already gone
func (c *azureBlobConnector) Delete(ctx context.Context, name string) error {
	_, err := c.client.DeleteBlob(ctx, c.containerName, name, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.BlobNotFound) {
		return fmt.Errorf("failed to delete blob %s: %w", name, err)
	}

	c.logger.Info("Deleted blob ", name, " from container ", c.containerName)
	return nil
}
