package setup

import (
	"fmt"
	"time"

	"github.com/wilsonsilva/rom/component"
	"github.com/wilsonsilva/rom/errors"
	"github.com/wilsonsilva/rom/notify"
)

// Finalize turns the frozen declarations into live components. It runs
// exactly once: relations first, then commands, then mappers, with
// notification events published at each milestone. On success the
// configuration is finalized and the component registries become
// available.
func (c *Configuration) Finalize() error {
	switch c.state {
	case StateFrozen:
	case StateFinalized:
		return errors.WrapConfig(errors.ErrFinalized, "Configuration", "Finalize", "state check")
	default:
		return errors.WrapConfig(
			fmt.Errorf("state %s: %w", c.state, errors.ErrInvalidState),
			"Configuration", "Finalize", "state check")
	}

	// The effective listener set is fixed here: every global listener
	// plus listeners owned by plugins enabled on this configuration.
	c.bus.Scope(c.registrations, c.enabled)

	started := time.Now()
	c.logger.Info("Finalizing configuration", "configuration", c.id,
		"relations", len(c.setup.Relations()),
		"commands", len(c.setup.Commands()),
		"mappers", len(c.setup.Mappers()))

	relations, err := c.finalizeRelations()
	if err != nil {
		c.metrics.recordFinalize(false, time.Since(started).Seconds())
		return err
	}
	commands, err := c.finalizeCommands(relations)
	if err != nil {
		c.metrics.recordFinalize(false, time.Since(started).Seconds())
		return err
	}
	mappers, err := c.finalizeMappers(relations)
	if err != nil {
		c.metrics.recordFinalize(false, time.Since(started).Seconds())
		return err
	}

	c.relations = relations
	c.commands = commands
	c.mappers = mappers
	c.state = StateFinalized

	c.metrics.setLive("relation", relations.Len())
	c.metrics.setLive("command", commands.Len())
	c.metrics.setLive("mapper", mappers.Len())
	c.metrics.recordFinalize(true, time.Since(started).Seconds())

	c.logger.Info("Configuration finalized", "configuration", c.id,
		"duration", time.Since(started))
	return nil
}

// finalizeRelations builds every declared relation in declaration
// order, publishing the relation lifecycle events around each build.
func (c *Configuration) finalizeRelations() (*RelationRegistry, error) {
	registry := newRelationRegistry()

	for _, desc := range c.setup.Relations() {
		name, err := desc.Name()
		if err != nil {
			return nil, err
		}
		if err := registry.reserve(name); err != nil {
			return nil, err
		}

		gatewayName := desc.GatewayName()
		gw, ok := c.setup.Gateway(gatewayName)
		if !ok {
			return nil, errors.WrapConfig(
				fmt.Errorf("relation %q: gateway %q: %w", name.Role, gatewayName, errors.ErrGatewayNotFound),
				"Configuration", "Finalize", "relation gateway resolution")
		}

		declared := desc.Constant().(component.Relation)

		payload := notify.Payload{"relation": declared, "name": name}
		if err := c.bus.Publish(EventRelationClassReady, payload); err != nil {
			return nil, err
		}

		schema := relationSchema(declared, name)
		payload["schema"] = schema
		if err := c.bus.Publish(EventRelationSchemaAllocated, payload); err != nil {
			return nil, err
		}
		// Listeners may have swapped the schema in the payload.
		if replaced, ok := payload["schema"].(component.Schema); ok {
			schema = replaced
		}
		if err := c.bus.Publish(EventRelationSchemaSet, payload); err != nil {
			return nil, err
		}

		built, err := declared.Construct(gw, schema)
		if err != nil {
			return nil, errors.Wrap(err, "Configuration", "Finalize",
				fmt.Sprintf("relation %q construction", name.Role))
		}
		if err := registry.add(name, built); err != nil {
			return nil, err
		}
		c.logger.Debug("Relation registered", "configuration", c.id,
			"relation", name.Role, "dataset", name.Dataset, "gateway", gatewayName)

		payload["registered"] = built
		if err := c.bus.Publish(EventRelationObjectRegistered, payload); err != nil {
			return nil, err
		}
	}

	if err := c.bus.Publish(EventRelationRegistryCreated, notify.Payload{"registry": registry}); err != nil {
		return nil, err
	}
	return registry, nil
}

// relationSchema takes the declared class's schema when it provides
// one, defaulting to an attribute-less schema over the relation's
// dataset.
func relationSchema(declared component.Relation, name component.Name) component.Schema {
	if provider, ok := declared.(component.SchemaProvider); ok {
		return provider.Schema()
	}
	return component.Schema{Dataset: name.Dataset}
}

// finalizeCommands builds every declared command against the live
// relation registry. A command that names a relation which does not
// exist is an identity error; a command that names no relation builds
// standalone.
func (c *Configuration) finalizeCommands(relations *RelationRegistry) (*CommandRegistry, error) {
	registry := newCommandRegistry()

	for _, desc := range c.setup.Commands() {
		id, err := desc.ID()
		if err != nil {
			return nil, err
		}

		var rel component.Relation
		if relationID, ok := desc.RelationID(); ok {
			rel, err = relations.Get(relationID)
			if err != nil {
				return nil, errors.WrapIdentity(
					fmt.Errorf("command %q: relation %q: %w", id, relationID, errors.ErrMissingRelation),
					"Configuration", "Finalize", "command relation resolution")
			}
		}

		declared := desc.Constant().(component.Command)

		payload := notify.Payload{"command": declared, "relation": rel, "id": id}
		if err := c.bus.Publish(EventCommandBeforeBuild, payload); err != nil {
			return nil, err
		}
		// Listeners may substitute the class that gets built.
		if replaced, ok := payload["command"].(component.Command); ok {
			declared = replaced
		}

		built, err := declared.Construct(rel)
		if err != nil {
			return nil, errors.Wrap(err, "Configuration", "Finalize",
				fmt.Sprintf("command %q construction", id))
		}
		if rel != nil {
			built = component.Restrict(built, rel)
		}
		if err := registry.add(id, built); err != nil {
			return nil, err
		}
		c.logger.Debug("Command registered", "configuration", c.id, "command", id)
	}

	return registry, nil
}

// finalizeMappers builds every declared mapper. Mappers resolve their
// relation the same way commands do but are registered as-is.
func (c *Configuration) finalizeMappers(relations *RelationRegistry) (*MapperRegistry, error) {
	registry := newMapperRegistry()

	for _, desc := range c.setup.Mappers() {
		id, err := desc.ID()
		if err != nil {
			return nil, err
		}

		var rel component.Relation
		if relationID, ok := desc.RelationID(); ok {
			rel, err = relations.Get(relationID)
			if err != nil {
				return nil, errors.WrapIdentity(
					fmt.Errorf("mapper %q: relation %q: %w", id, relationID, errors.ErrMissingRelation),
					"Configuration", "Finalize", "mapper relation resolution")
			}
		}

		declared := desc.Constant().(component.Mapper)
		built, err := declared.Construct(rel)
		if err != nil {
			return nil, errors.Wrap(err, "Configuration", "Finalize",
				fmt.Sprintf("mapper %q construction", id))
		}
		if err := registry.add(id, built); err != nil {
			return nil, err
		}
		c.logger.Debug("Mapper registered", "configuration", c.id, "mapper", id)
	}

	return registry, nil
}
