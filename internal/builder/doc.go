/*
Package builder turns a format-agnostic config.Model into a runnable
engine.Model. It is the bridge between the file loaders (hcl, toml) and the
simulation engine.

Construction happens in three passes:

 1. Stocks: each stock is created in declaration order. Formula attributes
    are parsed; omitted ones take the engine defaults (initial 0, no maximum).
    Infinite stocks are hidden unless `show` says otherwise.

 2. Flows: each flow resolves its endpoints by name, picks the rate kind and
    is attached in declaration order. Conversions and leaks are rejected when
    their source is infinite.

 3. Validation: every formula is checked for references to stocks that do not
    exist in the model.

The result is ready for engine.Model.Run.
*/
package builder
